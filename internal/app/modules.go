package app

import (
	"github.com/vk/pipegrid/internal/registry"
	"github.com/vk/pipegrid/modules/env_vars"
	"github.com/vk/pipegrid/modules/http_request"
	"github.com/vk/pipegrid/modules/mathops"
	"github.com/vk/pipegrid/modules/printer"
	"github.com/vk/pipegrid/modules/sliceops"
	"github.com/vk/pipegrid/modules/socketio"
)

// coreModules is the default set of built-in stage libraries registered when
// the caller does not supply its own.
var coreModules = []registry.Module{
	&mathops.Module{},
	&sliceops.Module{},
	&printer.Module{},
	&env_vars.Module{},
	&http_request.Module{},
	&socketio.Module{},
}

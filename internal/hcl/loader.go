package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/fsutil"
	"github.com/vk/pipegrid/internal/registry"
	"github.com/vk/pipegrid/internal/spec"
)

// Grid is a loaded, executable grid: the specification tree plus the initial
// named inputs declared alongside it.
type Grid struct {
	Name   string
	Root   *spec.Node
	Inputs map[string]any
}

// Loader reads grid files from disk and translates them into specification
// trees with stage functions resolved against a registry.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a grid loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load resolves rootPath (a .hcl file or a directory of them), parses every
// grid file, and assembles one Grid. Multiple pipeline blocks concatenate in
// file order; the first block's label names the grid.
func (l *Loader) Load(ctx context.Context, reg *registry.Registry, rootPath string) (*Grid, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(rootPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to locate grid files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl grid files found under %s", rootPath)
	}

	grid := &Grid{Inputs: make(map[string]any)}
	var pipelines []*spec.Node

	for _, path := range files {
		file, diags := l.parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, diags
		}
		content, diags := file.Body.Content(fileSchema)
		if diags.HasErrors() {
			return nil, diags
		}

		for _, block := range content.Blocks {
			switch block.Type {
			case "pipeline":
				if grid.Name == "" {
					grid.Name = block.Labels[0]
				}
				children, diags := l.translateBody(block.Body, reg)
				if diags.HasErrors() {
					return nil, diags
				}
				pipelines = append(pipelines, spec.Seq(children...))
			case "inputs":
				if diags := l.translateInputs(block.Body, grid.Inputs); diags.HasErrors() {
					return nil, diags
				}
			}
		}
		logger.Debug("Grid file loaded.", "path", path)
	}

	if len(pipelines) == 0 {
		return nil, fmt.Errorf("no pipeline block found under %s", rootPath)
	}
	if len(pipelines) == 1 {
		grid.Root = pipelines[0]
	} else {
		grid.Root = spec.Seq(pipelines...)
	}

	logger.Debug("Grid assembled.", "name", grid.Name, "files", len(files), "inputs", len(grid.Inputs))
	return grid, nil
}

// translateInputs evaluates an inputs block into initial named data.
func (l *Loader) translateInputs(body hcl.Body, into map[string]any) hcl.Diagnostics {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	evalCtx := evalContext()
	for name, attr := range attrs {
		val, moreDiags := attr.Expr.Value(evalCtx)
		if moreDiags.HasErrors() {
			diags = append(diags, moreDiags...)
			continue
		}
		gv, err := ctyToGo(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid input value",
				Detail:   fmt.Sprintf("Input %q: %s.", name, err),
				Subject:  attr.Range.Ptr(),
			})
			continue
		}
		into[name] = gv
	}
	return diags
}

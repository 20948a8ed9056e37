// Package socketio provides the 'socketio_request' stage function: connect,
// optionally emit, wait for one event, and hand its payload to the next stage.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/pipeline"
	"github.com/vk/pipegrid/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// Request is the 'socketio_request' stage function. The target URL is the
// stage input; namespace, on_event, emit_event, emit_data, timeout, and
// insecure_skip_verify come from kwargs. It returns the payload of the first
// on_event received.
func Request(ctx context.Context, rawURL string, kw pipeline.Kwargs) (any, error) {
	onEvent, _ := kw["on_event"].(string)
	if onEvent == "" {
		return nil, fmt.Errorf("kwarg 'on_event' is required")
	}
	namespace, _ := kw["namespace"].(string)
	emitEvent, _ := kw["emit_event"].(string)

	logger := ctxlog.FromContext(ctx).With("stage", "socketio_request", "url", rawURL, "onEvent", onEvent, "emitEvent", emitEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	var isConnected atomic.Bool

	timeout := 10 * time.Second
	if t, ok := kw["timeout"].(string); ok {
		parsed, err := time.ParseDuration(t)
		if err != nil {
			logger.Warn("Failed to parse timeout, using default 10s", "inputTimeout", t, "error", err)
		} else {
			timeout = parsed
		}
	}

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)

	if skip, _ := kw["insecure_skip_verify"].(bool); skip {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	// --- Event Listeners ---
	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", namespace, "sid", io.Id())
		if emitEvent != "" {
			logger.Info("Emitting event", "event", emitEvent)
			io.Emit(emitEvent, kw["emit_data"])
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		done <- opResult{err: errs[0].(error)}
	})

	io.On(types.EventName(onEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		done <- opResult{value: responseData}
	})

	// --- Execution Block ---
	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", onEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// Register registers the stage function with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("socketio_request", &registry.RegisteredStage{
		Fn:          Request,
		Description: "Connect to a socket.io server, optionally emit, and return the first 'on_event' payload.",
	})
}

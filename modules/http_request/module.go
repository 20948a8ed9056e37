// Package http_request provides the 'http_request' stage function.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/pipeline"
	"github.com/vk/pipegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Request is the 'http_request' stage function: fetches a URL and returns a
// map with the status code and body. Method and timeout come from kwargs and
// default to GET with 10s.
func Request(ctx context.Context, url string, kw pipeline.Kwargs) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	method := http.MethodGet
	if m, ok := kw["method"].(string); ok {
		method = strings.ToUpper(m)
	}
	timeout := 10 * time.Second
	if t, ok := kw["timeout"].(string); ok {
		parsed, err := time.ParseDuration(t)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", t, err)
		}
		timeout = parsed
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if b, ok := kw["body"].(string); ok {
		body = strings.NewReader(b)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger.Info("Making HTTP request", "method", method, "url", url)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        string(bodyBytes),
	}, nil
}

// Register registers the stage function with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("http_request", &registry.RegisteredStage{
		Fn:          Request,
		Description: "Fetch a URL; returns a map with status_code and body.",
	})
}

package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client defaults to a client with a 10 second timeout.
	Client *http.Client
}

// Check issues a GET against args[0]. The entry point exits 0 when the
// response status equals args[1], or is any 2xx status when args[1] is
// absent, and 1 otherwise.
func (m *Module) Check(ctx context.Context, inv config.Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return -1, fmt.Errorf("http_check needs a URL argument")
	}
	url := inv.Args[0]
	want := 0
	if len(inv.Args) > 1 {
		n, err := strconv.Atoi(inv.Args[1])
		if err != nil {
			return -1, fmt.Errorf("invalid expected status '%s': %w", inv.Args[1], err)
		}
		want = n
	}

	logger := ctxlog.FromContext(ctx).With("module", inv.Module, "url", url)
	logger.Info("Making HTTP request", "method", http.MethodGet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return -1, fmt.Errorf("failed to create request: %w", err)
	}
	client := m.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(inv.Stderr, "GET %s: %v\n", url, err)
		return 1, nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Info("Received HTTP response", "status", resp.Status)
	fmt.Fprintf(inv.Stdout, "GET %s -> %s\n", url, resp.Status)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if want != 0 {
		ok = resp.StatusCode == want
	}
	if !ok {
		return 1, nil
	}
	return 0, nil
}

// Register registers the entry point with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEntryPoint("http_check", config.RunnableFunc(m.Check))
}

// Package notify streams build progress to a socket.io server.
package notify

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/executor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names emitted by the Publisher.
const (
	EventBuildStarted   = "build_started"
	EventModuleStarted  = "module_started"
	EventModuleFinished = "module_finished"
	EventBuildFinished  = "build_finished"
)

type emitter interface {
	emit(event string, data map[string]any)
	close()
}

// Publisher is an executor.Listener that emits one socket.io event per
// build milestone.
type Publisher struct {
	out emitter
}

var _ executor.Listener = (*Publisher)(nil)

// Dial connects to rawURL and waits up to timeout for the connection. The
// URL path selects the namespace, e.g. http://localhost:3000/builds.
func Dial(ctx context.Context, rawURL string, timeout time.Duration) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must be absolute", rawURL)
	}
	namespace := parsedURL.Path
	if namespace == "" {
		namespace = "/"
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		select {
		case connected <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	logger.Debug("Connecting to notification server.", "namespace", namespace)
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("connecting to %s: %w", rawURL, err)
		}
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for initial connection to %s", rawURL)
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	}

	logger.Info("📡 Connected to notification server", "sid", io.Id())
	return &Publisher{out: &socketEmitter{io: io}}, nil
}

func (p *Publisher) BuildStarted(_ context.Context, buildID string, plan []string) {
	p.out.emit(EventBuildStarted, map[string]any{
		"build_id": buildID,
		"plan":     plan,
	})
}

func (p *Publisher) ModuleStarted(_ context.Context, buildID, module string) {
	p.out.emit(EventModuleStarted, map[string]any{
		"build_id": buildID,
		"module":   module,
	})
}

func (p *Publisher) ModuleFinished(_ context.Context, buildID string, r executor.Result) {
	data := map[string]any{
		"build_id":    buildID,
		"module":      r.Module,
		"status":      string(r.Status),
		"duration_ms": r.Duration.Milliseconds(),
	}
	if r.ExitCode >= 0 {
		data["exit_code"] = r.ExitCode
	}
	if r.Detail != "" {
		data["detail"] = r.Detail
	}
	p.out.emit(EventModuleFinished, data)
}

func (p *Publisher) BuildFinished(_ context.Context, report *executor.Report) {
	s, f, k := report.Counts()
	p.out.emit(EventBuildFinished, map[string]any{
		"build_id":    report.BuildID,
		"succeeded":   s,
		"failed":      f,
		"skipped":     k,
		"duration_ms": report.Finished.Sub(report.Started).Milliseconds(),
	})
}

// Close disconnects from the server.
func (p *Publisher) Close() {
	p.out.close()
}

type socketEmitter struct {
	io *socket.Socket
}

func (s *socketEmitter) emit(event string, data map[string]any) {
	s.io.Emit(event, data)
}

func (s *socketEmitter) close() {
	s.io.Disconnect()
}

package executor

import "context"

// Listener observes a build. All methods are called from the scheduler
// goroutine, so implementations need no locking of their own.
type Listener interface {
	BuildStarted(ctx context.Context, buildID string, plan []string)
	ModuleStarted(ctx context.Context, buildID, module string)
	ModuleFinished(ctx context.Context, buildID string, r Result)
	BuildFinished(ctx context.Context, report *Report)
}

type listeners []Listener

func (ls listeners) buildStarted(ctx context.Context, id string, plan []string) {
	for _, l := range ls {
		l.BuildStarted(ctx, id, plan)
	}
}

func (ls listeners) moduleStarted(ctx context.Context, id, module string) {
	for _, l := range ls {
		l.ModuleStarted(ctx, id, module)
	}
}

func (ls listeners) moduleFinished(ctx context.Context, id string, r Result) {
	for _, l := range ls {
		l.ModuleFinished(ctx, id, r)
	}
}

func (ls listeners) buildFinished(ctx context.Context, report *Report) {
	for _, l := range ls {
		l.BuildFinished(ctx, report)
	}
}

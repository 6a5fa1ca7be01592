package integration_tests

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/gridbuild/internal/toolchain"
)

type executionRecord struct {
	Start, End time.Time
}

// timingToolchain records when each module's compile step ran. Modules in
// barrier only finish once all of them have started.
type timingToolchain struct {
	barrier map[string]bool
	arrived sync.WaitGroup

	mu       sync.Mutex
	records  map[string]executionRecord
	timedOut bool
}

func newTimingToolchain(barrier ...string) *timingToolchain {
	tc := &timingToolchain{barrier: map[string]bool{}, records: map[string]executionRecord{}}
	for _, id := range barrier {
		tc.barrier[id] = true
	}
	tc.arrived.Add(len(barrier))
	return tc
}

func (tc *timingToolchain) Compile(_ context.Context, u toolchain.Unit) (string, error) {
	start := time.Now()
	if tc.barrier[u.Module] {
		tc.arrived.Done()
		all := make(chan struct{})
		go func() {
			tc.arrived.Wait()
			close(all)
		}()
		select {
		case <-all:
		case <-time.After(2 * time.Second):
			tc.mu.Lock()
			tc.timedOut = true
			tc.mu.Unlock()
		}
	}
	time.Sleep(10 * time.Millisecond)

	tc.mu.Lock()
	tc.records[u.Module] = executionRecord{Start: start, End: time.Now()}
	tc.mu.Unlock()
	return "", nil
}

func (tc *timingToolchain) Test(context.Context, toolchain.Unit) (string, error) { return "", nil }

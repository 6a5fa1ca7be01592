package executor

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Status is the terminal state of a module.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Step names a unit of work performed for a module.
type Step string

const (
	StepCompile Step = "compile"
	StepTest    Step = "test"
	StepRun     Step = "run"
)

// Result is the outcome of one module. ExitCode is -1 unless the run step
// executed.
type Result struct {
	Module      string        `json:"module" yaml:"module"`
	Status      Status        `json:"status" yaml:"status"`
	Steps       []Step        `json:"steps,omitempty" yaml:"steps,omitempty"`
	ExitCode    int           `json:"exit_code" yaml:"exit_code"`
	Detail      string        `json:"detail,omitempty" yaml:"detail,omitempty"`
	Diagnostics string        `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Duration    time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Err         error         `json:"-" yaml:"-"`
}

// Report is the outcome of one Execute call. Results are sorted by module.
type Report struct {
	BuildID  string    `json:"build_id" yaml:"build_id"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
	Plan     []string  `json:"plan" yaml:"plan"`
	Results  []Result  `json:"results" yaml:"results"`
}

// Counts tallies results by status.
func (r *Report) Counts() (succeeded, failed, skipped int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusSucceeded:
			succeeded++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

// OK reports whether every module succeeded.
func (r *Report) OK() bool {
	_, failed, skipped := r.Counts()
	return failed == 0 && skipped == 0
}

// Result looks up one module's result.
func (r *Report) Result(module string) (Result, bool) {
	i, found := slices.BinarySearchFunc(r.Results, module, func(res Result, id string) int {
		return strings.Compare(res.Module, id)
	})
	if !found {
		return Result{}, false
	}
	return r.Results[i], true
}

// Failed returns the ids of failed modules, sorted.
func (r *Report) Failed() []string {
	var out []string
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res.Module)
		}
	}
	return out
}

// slot holds one module's result. Each module has exactly one writer at a
// time: the worker while it runs, the scheduler otherwise.
type slot struct {
	mu       sync.Mutex
	result   Result
	terminal bool
}

func (s *slot) set(r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal {
		return false
	}
	s.result = r
	s.terminal = true
	return true
}

func (s *slot) isTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal
}

func (s *slot) get() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

package web

import (
	"context"
	"sync"
	"time"

	"github.com/nahidhasan/picklist-export/internal/export"
)

// RunPhase indicates the current stage of an export run.
type RunPhase string

const (
	PhaseRunning   RunPhase = "running"
	PhaseComplete  RunPhase = "complete"
	PhaseFailed    RunPhase = "failed"
	PhaseCancelled RunPhase = "cancelled"
)

// RunStatus is the externally visible state of one export run.
type RunStatus struct {
	RunID      string             `json:"runId"`
	Phase      RunPhase           `json:"phase"`
	Objects    int                `json:"objects"`
	Current    int                `json:"current"`
	Total      int                `json:"total"`
	StartedAt  time.Time          `json:"startedAt"`
	OutputPath string             `json:"outputPath,omitempty"`
	Error      string             `json:"error,omitempty"`
	Stats      *export.Statistics `json:"stats,omitempty"`
}

// RunEvent is one item on a run's event stream.
type RunEvent struct {
	Type    string `json:"type"` // "log", "progress" or "complete"
	Message string `json:"message,omitempty"`
	Verbose bool   `json:"verbose,omitempty"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// exportRun tracks one in-flight or recently finished export. It is the
// run's export.Observer: log lines and progress ticks from the engine are
// fanned out to all subscribed listeners.
type exportRun struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	status    RunStatus
	listeners []chan RunEvent
	closed    bool
}

func newExportRun(id string, objects int, cancel context.CancelFunc) *exportRun {
	return &exportRun{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
		status: RunStatus{
			RunID:     id,
			Phase:     PhaseRunning,
			Objects:   objects,
			Total:     objects,
			StartedAt: time.Now(),
		},
	}
}

// Log implements export.Observer.
func (r *exportRun) Log(message string, verbose bool) {
	r.notify(RunEvent{Type: "log", Message: message, Verbose: verbose})
}

// Progress implements export.Observer.
func (r *exportRun) Progress(current, total int) {
	r.mu.Lock()
	r.status.Current = current
	r.status.Total = total
	r.mu.Unlock()

	r.notify(RunEvent{Type: "progress", Current: current, Total: total})
}

// Status returns a snapshot of the run state.
func (r *exportRun) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// finish records the terminal state of the run.
func (r *exportRun) finish(outputPath string, stats *export.Statistics, err error) {
	r.mu.Lock()
	r.status.OutputPath = outputPath
	r.status.Stats = stats
	switch {
	case err != nil:
		r.status.Phase = PhaseFailed
		r.status.Error = err.Error()
	case stats != nil && stats.Cancelled:
		r.status.Phase = PhaseCancelled
	default:
		r.status.Phase = PhaseComplete
	}
	r.mu.Unlock()
}

// subscribe returns a channel receiving this run's events. The channel is
// closed when the run completes.
func (r *exportRun) subscribe() <-chan RunEvent {
	ch := make(chan RunEvent, 64)

	r.mu.Lock()
	if r.closed {
		close(ch)
	} else {
		r.listeners = append(r.listeners, ch)
	}
	r.mu.Unlock()

	return ch
}

// notify sends an event to all listeners without blocking: a slow consumer
// drops events rather than stalling the export goroutine.
func (r *exportRun) notify(ev RunEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	for _, ch := range r.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// closeListeners terminates all event streams.
func (r *exportRun) closeListeners() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, ch := range r.listeners {
		close(ch)
	}
	r.listeners = nil
}

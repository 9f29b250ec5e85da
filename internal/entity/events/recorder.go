package events

import (
	"context"
	"sync"
)

// Recorder keeps published changes in memory. Used by tests.
type Recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *Recorder) Publish(_ context.Context, change Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return nil
}

func (r *Recorder) Close() error {
	return nil
}

// Changes returns a copy of what was published, oldest first.
func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

// Actions lists the recorded actions in order.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Action
	}
	return out
}

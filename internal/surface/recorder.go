package surface

import (
	"context"
	"sync"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Recorder keeps every published view and mark in memory, in publish order.
type Recorder struct {
	mu        sync.Mutex
	decisions []domain.DecisionView
	marks     []domain.GridMark
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ShowDecision implements Surface.
func (r *Recorder) ShowDecision(_ context.Context, v *domain.DecisionView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, *v)
	return nil
}

// MarkGridItem implements Surface.
func (r *Recorder) MarkGridItem(_ context.Context, m *domain.GridMark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks = append(r.marks, *m)
	return nil
}

// Decisions returns a copy of the recorded views.
func (r *Recorder) Decisions() []domain.DecisionView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DecisionView(nil), r.decisions...)
}

// Marks returns a copy of the recorded grid marks.
func (r *Recorder) Marks() []domain.GridMark {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.GridMark(nil), r.marks...)
}

// States returns the decision states recorded for a target, in order.
func (r *Recorder) States(key domain.TargetKey) []domain.DecisionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	var states []domain.DecisionState
	for i := range r.decisions {
		if r.decisions[i].Target == key {
			states = append(states, r.decisions[i].Decision.State)
		}
	}
	return states
}

package render

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Mark is the processing state of a target.
type Mark int

// Mark values.
const (
	Unmarked Mark = iota
	InFlight
	Rendered
)

func (m Mark) String() string {
	switch m {
	case InFlight:
		return "in_flight"
	case Rendered:
		return "rendered"
	default:
		return "unmarked"
	}
}

// Tracker holds per-target processing markers. Claim sets the marker
// synchronously, so a caller that wins the claim owns the target until it
// releases it; every other trigger for the same target is skipped.
type Tracker struct {
	mu    sync.Mutex
	marks map[domain.TargetKey]Mark
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{marks: make(map[domain.TargetKey]Mark)}
}

// Claim marks key in flight. It returns false if key is already in flight
// or rendered.
func (t *Tracker) Claim(key domain.TargetKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.marks[key] != Unmarked {
		return false
	}
	t.marks[key] = InFlight
	return true
}

// ClaimN claims, in order, up to n of the given keys that are not yet
// marked and returns the claimed keys.
func (t *Tracker) ClaimN(keys []domain.TargetKey, n int) []domain.TargetKey {
	t.mu.Lock()
	defer t.mu.Unlock()

	free := lo.Filter(keys, func(k domain.TargetKey, _ int) bool {
		return t.marks[k] == Unmarked
	})
	free = lo.Uniq(free)
	if len(free) > n {
		free = free[:max(n, 0)]
	}
	for _, k := range free {
		t.marks[k] = InFlight
	}
	return free
}

// Complete marks key rendered.
func (t *Tracker) Complete(key domain.TargetKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.marks[key] = Rendered
}

// Release clears the marker for key so it can be processed again.
func (t *Tracker) Release(key domain.TargetKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.marks, key)
}

// Mark returns the current marker for key.
func (t *Tracker) Mark(key domain.TargetKey) Mark {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.marks[key]
}

// Unmarked returns the keys, in order, that carry no marker.
func (t *Tracker) Unmarked(keys []domain.TargetKey) []domain.TargetKey {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Filter(keys, func(k domain.TargetKey, _ int) bool {
		return t.marks[k] == Unmarked
	})
}

// Keys returns every marked key, sorted.
func (t *Tracker) Keys() []domain.TargetKey {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := lo.Keys(t.marks)
	slices.Sort(keys)
	return keys
}

// Len returns the number of marked keys.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.marks)
}

// Reset clears every marker.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.marks)
}

package surface

import (
	"context"
	"fmt"

	"github.com/luticapital/arbitrage-helper/internal/store"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// History persists terminal decisions to the decision store. Loading views
// and grid marks are not recorded.
type History struct {
	store store.Store
}

// NewHistory creates a history surface backed by s.
func NewHistory(s store.Store) *History {
	return &History{store: s}
}

// ShowDecision implements Surface.
func (h *History) ShowDecision(ctx context.Context, v *domain.DecisionView) error {
	if !v.Decision.State.Terminal() {
		return nil
	}
	if err := h.store.RecordDecision(ctx, domain.NewDecisionRecord(v)); err != nil {
		return fmt.Errorf("recording decision for %s: %w", v.Target, err)
	}
	return nil
}

// MarkGridItem implements Surface.
func (h *History) MarkGridItem(context.Context, *domain.GridMark) error {
	return nil
}

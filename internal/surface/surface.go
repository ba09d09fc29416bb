// Package surface defines where rendered decisions and grid marks go. The
// pipeline publishes to a Surface and never depends on how a surface
// presents the result.
package surface

import (
	"context"
	"errors"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Surface receives decision views and grid marks. Implementations must be
// safe for concurrent use.
type Surface interface {
	ShowDecision(ctx context.Context, v *domain.DecisionView) error
	MarkGridItem(ctx context.Context, m *domain.GridMark) error
}

// Multi fans out to every surface. A failing surface does not stop delivery
// to the others; all errors are joined.
type Multi []Surface

// ShowDecision implements Surface.
func (m Multi) ShowDecision(ctx context.Context, v *domain.DecisionView) error {
	var errs []error
	for _, s := range m {
		if err := s.ShowDecision(ctx, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MarkGridItem implements Surface.
func (m Multi) MarkGridItem(ctx context.Context, mark *domain.GridMark) error {
	var errs []error
	for _, s := range m {
		if err := s.MarkGridItem(ctx, mark); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a Surface that drops everything.
type Discard struct{}

// ShowDecision implements Surface.
func (Discard) ShowDecision(context.Context, *domain.DecisionView) error { return nil }

// MarkGridItem implements Surface.
func (Discard) MarkGridItem(context.Context, *domain.GridMark) error { return nil }

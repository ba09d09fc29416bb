package surface

import (
	"context"
	"log/slog"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Log writes every decision and grid mark as a structured log line.
type Log struct {
	log *slog.Logger
}

// NewLog creates a logging surface.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

// ShowDecision implements Surface.
func (l *Log) ShowDecision(ctx context.Context, v *domain.DecisionView) error {
	attrs := []any{
		"target", v.Target,
		"item", v.Item.String(),
		"price", v.Item.Price.StringFixed(2),
		"min_sell", v.Decision.Economics.MinSellPrice.StringFixed(2),
		"state", v.Decision.State,
	}
	if q := v.Decision.Quote; q != nil {
		attrs = append(attrs, "quote_mode", q.Mode)
		if q.MarketPrice.Valid {
			attrs = append(attrs, "market", q.MarketPrice.Decimal.StringFixed(2))
		}
		if q.FairValue.Valid {
			attrs = append(attrs, "fair_value", q.FairValue.Decimal.StringFixed(2))
		}
	}
	if p := v.Decision.Profit; p != nil {
		attrs = append(attrs, "profit", p.Amount.StringFixed(2), "profit_pct", p.Percent.StringFixed(1))
	}
	if v.Decision.FollowUp {
		attrs = append(attrs, "follow_up", true)
	}

	level := slog.LevelDebug
	if v.Decision.State.Terminal() {
		level = slog.LevelInfo
	}
	l.log.Log(ctx, level, "decision", attrs...)
	return nil
}

// MarkGridItem implements Surface.
func (l *Log) MarkGridItem(ctx context.Context, m *domain.GridMark) error {
	attrs := []any{
		"target", m.Target,
		"position", m.Position,
		"verdict", m.Verdict,
	}
	if m.Item != nil {
		attrs = append(attrs, "item", m.Item.String(), "price", m.Item.Price.StringFixed(2))
	}
	if m.Reason != "" {
		attrs = append(attrs, "reason", m.Reason)
	}
	l.log.InfoContext(ctx, "grid item", attrs...)
	return nil
}

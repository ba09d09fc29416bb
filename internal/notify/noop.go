package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded deals. It is used
// when Discord is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards deals with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendDeal logs and discards a single deal.
func (n *NoOpNotifier) SendDeal(_ context.Context, deal *DealPayload) error {
	n.log.Debug("notification discarded (no backend configured)",
		"item", deal.Item,
		"wear", deal.Wear,
		"price", deal.Price.StringFixed(2),
		"profit_pct", deal.ProfitPercent.StringFixed(1),
	)
	return nil
}

// SendBatch logs and discards a batch of deals.
func (n *NoOpNotifier) SendBatch(_ context.Context, deals []DealPayload, title string) error {
	n.log.Debug("batch notification discarded (no backend configured)",
		"title", title,
		"count", len(deals),
	)
	return nil
}

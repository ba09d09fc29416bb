package surface

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	"github.com/luticapital/arbitrage-helper/internal/notify"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Alerts sends a notification for every good deal. Each decision instance
// and grid node alerts at most once.
type Alerts struct {
	notifier notify.Notifier
	pageURL  string
	log      *slog.Logger

	mu   sync.Mutex
	sent map[string]struct{}
}

// AlertsOption configures Alerts.
type AlertsOption func(*Alerts)

// WithPageURL sets the link attached to alerts.
func WithPageURL(u string) AlertsOption {
	return func(a *Alerts) {
		a.pageURL = u
	}
}

// WithAlertsLogger sets the logger.
func WithAlertsLogger(l *slog.Logger) AlertsOption {
	return func(a *Alerts) {
		a.log = l
	}
}

// NewAlerts creates an alerting surface.
func NewAlerts(n notify.Notifier, opts ...AlertsOption) *Alerts {
	a := &Alerts{
		notifier: n,
		log:      slog.Default(),
		sent:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ShowDecision implements Surface.
func (a *Alerts) ShowDecision(ctx context.Context, v *domain.DecisionView) error {
	if v.Decision.State != domain.StateGoodDeal || v.Decision.Profit == nil {
		return nil
	}

	key := fmt.Sprintf("%s/%t", v.InstanceID, v.Decision.FollowUp)
	if !a.claim(key) {
		return nil
	}

	deal := &notify.DealPayload{
		Item:          v.Item.Name,
		Wear:          v.Item.WearLabel(),
		PageURL:       a.pageURL,
		Source:        v.Mode,
		Price:         v.Item.Price,
		MinSellPrice:  v.Decision.Economics.MinSellPrice,
		ComparePrice:  v.Decision.Profit.SellPrice,
		ProfitAmount:  v.Decision.Profit.Amount,
		ProfitPercent: v.Decision.Profit.Percent,
	}
	if v.Decision.Quote != nil {
		deal.Mode = v.Decision.Quote.Mode
	}
	return a.send(ctx, key, deal)
}

// MarkGridItem implements Surface.
func (a *Alerts) MarkGridItem(ctx context.Context, m *domain.GridMark) error {
	if m.Verdict != domain.VerdictGood || m.Item == nil || !m.MarketPrice.Valid {
		return nil
	}

	key := "grid/" + string(m.Target)
	if !a.claim(key) {
		return nil
	}

	deal := &notify.DealPayload{
		Item:         m.Item.Name,
		Wear:         m.Item.WearLabel(),
		PageURL:      a.pageURL,
		Source:       domain.ModeGrid,
		Mode:         domain.QuoteModeMarket,
		Price:        m.Item.Price,
		MinSellPrice: m.MinSellPrice.Decimal,
		ComparePrice: m.MarketPrice.Decimal,
	}
	if m.Profit != nil {
		deal.ProfitAmount = m.Profit.Amount
		deal.ProfitPercent = m.Profit.Percent
	}
	return a.send(ctx, key, deal)
}

// Reset forgets which deals were already alerted.
func (a *Alerts) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.sent)
}

func (a *Alerts) claim(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.sent[key]; ok {
		return false
	}
	a.sent[key] = struct{}{}
	return true
}

func (a *Alerts) release(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sent, key)
}

func (a *Alerts) send(ctx context.Context, key string, deal *notify.DealPayload) error {
	if err := a.notifier.SendDeal(ctx, deal); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		a.release(key)
		a.log.Warn("deal notification failed", "item", deal.Item, "error", err)
		return fmt.Errorf("sending deal alert: %w", err)
	}
	metrics.AlertsFiredTotal.Inc()
	return nil
}

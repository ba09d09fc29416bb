// Package notify defines the notification interface and implementations
// for good-deal alert delivery.
package notify

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// DealPayload contains the data needed to send a good-deal notification.
type DealPayload struct {
	Item         string
	Wear         string
	PageURL      string
	Source       domain.PageMode
	Mode         domain.QuoteMode
	Price        decimal.Decimal
	MinSellPrice decimal.Decimal
	// ComparePrice is the oracle figure the deal was judged against: the
	// market price in market mode, the fair value in full mode.
	ComparePrice  decimal.Decimal
	ProfitAmount  decimal.Decimal
	ProfitPercent decimal.Decimal
}

// Notifier defines the interface for sending deal notifications.
type Notifier interface {
	SendDeal(ctx context.Context, deal *DealPayload) error
	SendBatch(ctx context.Context, deals []DealPayload, title string) error
}

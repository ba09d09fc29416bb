package economics

import (
	"github.com/shopspring/decimal"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// JudgeMarket classifies a market-only quote: the current market price is
// compared against the break-even price.
func JudgeMarket(q domain.MarketQuote, e domain.EconomicsResult) domain.Decision {
	quote := q.Quote()
	profit := Profit(e.BuyPrice, q.MarketPrice, FeeRate(e))

	return domain.Decision{
		State:     dealState(IsGoodDeal(q.MarketPrice, e.MinSellPrice)),
		Economics: e,
		Quote:     &quote,
		Profit:    &profit,
	}
}

// JudgeFull classifies a full quote. The oracle's blended fair value is
// compared against the break-even price instead of the market price, so the
// two modes can disagree for the same item.
func JudgeFull(q domain.FullQuote, e domain.EconomicsResult) domain.Decision {
	quote := q.Quote()
	profit := Profit(e.BuyPrice, q.FairValue, FeeRate(e))

	return domain.Decision{
		State:     dealState(IsGoodDeal(q.FairValue, e.MinSellPrice)),
		Economics: e,
		Quote:     &quote,
		Profit:    &profit,
	}
}

func dealState(good bool) domain.DecisionState {
	if good {
		return domain.StateGoodDeal
	}
	return domain.StateBadDeal
}

// FeeRate returns the fee fraction the result was computed with.
func FeeRate(e domain.EconomicsResult) decimal.Decimal {
	return decimal.NewFromFloat(e.FeePercent).Div(hundred)
}

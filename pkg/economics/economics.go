// Package economics computes break-even resale prices and realized profit
// for a buy price under a sell-side percentage fee.
package economics

import (
	"github.com/shopspring/decimal"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// MinSellPrice returns the sell price that nets buyPrice*(1+targetMarginRate)
// after a fee of feeRate is taken from the sell price. Callers guarantee
// buyPrice > 0 and 0 <= feeRate < 1.
func MinSellPrice(buyPrice, targetMarginRate, feeRate decimal.Decimal) decimal.Decimal {
	return buyPrice.Mul(one.Add(targetMarginRate)).Div(one.Sub(feeRate))
}

// Profit returns the realized result of buying at buyPrice and selling at
// sellPrice with feeRate taken from the sell side.
func Profit(buyPrice, sellPrice, feeRate decimal.Decimal) domain.Profit {
	net := sellPrice.Mul(one.Sub(feeRate))
	amount := net.Sub(buyPrice)

	return domain.Profit{
		SellPrice:   sellPrice,
		NetReceived: net,
		Amount:      amount,
		Percent:     amount.Div(buyPrice).Mul(hundred),
	}
}

// Evaluate computes the break-even figures for buyPrice under the settings.
func Evaluate(buyPrice decimal.Decimal, s domain.Settings) domain.EconomicsResult {
	minSell := MinSellPrice(buyPrice, s.MarginRate(), s.FeeRate())

	return domain.EconomicsResult{
		BuyPrice:        buyPrice,
		MinSellPrice:    minSell,
		BreakEvenMargin: minSell.Div(buyPrice).Sub(one).Mul(hundred),
		FeePercent:      s.FeePercent,
		MarginPercent:   s.MarginPercent,
	}
}

// IsGoodDeal reports whether comparePrice clears the break-even price.
func IsGoodDeal(comparePrice, minSellPrice decimal.Decimal) bool {
	return comparePrice.GreaterThan(minSellPrice)
}

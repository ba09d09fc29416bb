package economics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/luticapital/arbitrage-helper/pkg/economics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMinSellPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		buy    string
		margin string
		fee    string
		want   string // rounded to cents
	}{
		{name: "reference scenario", buy: "100", margin: "0.10", fee: "0.08", want: "119.57"},
		{name: "no fee no margin", buy: "50", margin: "0", fee: "0", want: "50"},
		{name: "fee only", buy: "100", margin: "0", fee: "0.15", want: "117.65"},
		{name: "margin only", buy: "100", margin: "0.25", fee: "0", want: "125"},
		{name: "large price", buy: "12000", margin: "0.05", fee: "0.02", want: "12857.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := economics.MinSellPrice(d(tt.buy), d(tt.margin), d(tt.fee))
			assert.Equal(t, tt.want, got.Round(2).String())
		})
	}
}

func TestMinSellPrice_Monotonic(t *testing.T) {
	t.Parallel()

	base := economics.MinSellPrice(d("100"), d("0.10"), d("0.08"))

	assert.True(t, economics.MinSellPrice(d("100.01"), d("0.10"), d("0.08")).GreaterThan(base),
		"increasing in buy price")
	assert.True(t, economics.MinSellPrice(d("100"), d("0.11"), d("0.08")).GreaterThan(base),
		"increasing in margin")
	assert.True(t, economics.MinSellPrice(d("100"), d("0.10"), d("0.09")).GreaterThan(base),
		"increasing in fee")

	prev := economics.MinSellPrice(d("100"), d("0.10"), d("0"))
	for _, fee := range []string{"0.01", "0.1", "0.5", "0.9", "0.99"} {
		cur := economics.MinSellPrice(d("100"), d("0.10"), d(fee))
		assert.True(t, cur.GreaterThan(prev), "fee %s", fee)
		prev = cur
	}
}

func TestBreakEvenDeliversTargetMargin(t *testing.T) {
	t.Parallel()

	tolerance := d("0.000001")

	for _, buy := range []string{"0.03", "1", "19.99", "100", "4321.5"} {
		for _, fee := range []string{"0", "0.02", "0.08", "0.15", "0.5"} {
			for _, margin := range []string{"0", "0.05", "0.10", "1"} {
				minSell := economics.MinSellPrice(d(buy), d(margin), d(fee))
				p := economics.Profit(d(buy), minSell, d(fee))
				want := d(buy).Mul(d(margin))

				assert.True(t, p.Amount.Sub(want).Abs().LessThan(tolerance),
					"buy=%s fee=%s margin=%s profit=%s want=%s", buy, fee, margin, p.Amount, want)
			}
		}
	}
}

func TestProfit(t *testing.T) {
	t.Parallel()

	p := economics.Profit(d("100"), d("130"), d("0.08"))
	assert.Equal(t, "119.6", p.NetReceived.String())
	assert.Equal(t, "19.6", p.Amount.String())
	assert.Equal(t, "19.6", p.Percent.String())

	loss := economics.Profit(d("100"), d("100"), d("0.08"))
	assert.True(t, loss.Amount.IsNegative())
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	s := domain.DefaultSettings()
	e := economics.Evaluate(d("100"), s)

	assert.Equal(t, "119.57", e.MinSellPrice.Round(2).String())
	assert.Equal(t, "19.57", e.BreakEvenMargin.Round(2).String())
	assert.Equal(t, "100", e.BuyPrice.String())
	assert.InDelta(t, 8.0, e.FeePercent, 0)
	assert.InDelta(t, 10.0, e.MarginPercent, 0)
}

func TestIsGoodDeal(t *testing.T) {
	t.Parallel()

	assert.True(t, economics.IsGoodDeal(d("130"), d("119.57")))
	assert.False(t, economics.IsGoodDeal(d("110"), d("119.57")))
	assert.False(t, economics.IsGoodDeal(d("119.57"), d("119.57")), "equal is not a deal")
}

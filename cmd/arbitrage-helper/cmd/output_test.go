package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/internal/config"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func TestPrintMarks(t *testing.T) {
	t.Parallel()

	item := &domain.ListedItem{
		ItemIdentity: domain.ItemIdentity{Name: "AK-47 | Redline", Wear: domain.WearFieldTested},
		Price:        decimal.NewFromInt(100),
	}
	marks := []domain.GridMark{
		{
			Position:     0,
			Verdict:      domain.VerdictGood,
			Item:         item,
			MinSellPrice: decimal.NewNullDecimal(decimal.RequireFromString("119.57")),
			MarketPrice:  decimal.NewNullDecimal(decimal.NewFromInt(150)),
			Profit: &domain.Profit{
				Amount:  decimal.RequireFromString("38"),
				Percent: decimal.RequireFromString("38"),
			},
		},
		{Position: 1, Verdict: domain.VerdictSkip, Reason: "no_price"},
	}

	var buf bytes.Buffer
	require.NoError(t, printMarks(&buf, marks))

	out := buf.String()
	assert.Contains(t, out, "AK-47 | Redline (Field-Tested)")
	assert.Contains(t, out, "119.57")
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, "38.00 (38.0%)")
	assert.Contains(t, out, "no_price")
}

func TestPrintDecision(t *testing.T) {
	t.Parallel()

	item := &domain.ListedItem{
		ItemIdentity: domain.ItemIdentity{Name: "AWP | Asiimov", Wear: domain.WearBattleScarred},
		Price:        decimal.NewFromInt(80),
	}
	quote := domain.FullQuote{
		MarketPrice:   decimal.NewFromInt(90),
		HistoricPrice: decimal.NewFromInt(70),
		FairValue:     decimal.NewFromInt(80),
	}.Quote()
	d := &domain.Decision{
		State:     domain.StateBadDeal,
		Economics: domain.EconomicsResult{MinSellPrice: decimal.RequireFromString("95.65"), FeePercent: 8, MarginPercent: 10},
		Quote:     &quote,
		FollowUp:  true,
	}

	var buf bytes.Buffer
	require.NoError(t, printDecision(&buf, item, d))

	out := buf.String()
	assert.Contains(t, out, "AWP | Asiimov (Battle-Scarred)")
	assert.Contains(t, out, "95.65 (fee 8.00%, margin 10.00%)")
	assert.Contains(t, out, "bad_deal")
	assert.Contains(t, out, "Fair Value:")
	assert.Contains(t, out, "Follow-up:")
}

func TestLoadConfig_OptionalMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile = filepath.Join(dir, "missing.yaml")
	envFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { cfgFile, envFile = "config.yaml", ".env" })

	cfg, err := loadConfig(true)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = loadConfig(false)
	require.Error(t, err)
}

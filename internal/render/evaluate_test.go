package render_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/internal/oracle"
	"github.com/luticapital/arbitrage-helper/internal/oracle/mocks"
	"github.com/luticapital/arbitrage-helper/internal/render"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		oracleOff bool
		historic  bool
		full      bool
		setup     func(mc *mocks.MockClient)
		wantState domain.DecisionState
		wantMode  domain.QuoteMode
		followUp  bool
	}{
		{
			name:      "oracle disabled",
			oracleOff: true,
			setup:     func(*mocks.MockClient) {},
			wantState: domain.StateQuickCalcOnly,
		},
		{
			name: "market route",
			setup: func(mc *mocks.MockClient) {
				mc.EXPECT().QueryMarket(mock.Anything, mock.Anything).Return(market(130), nil).Once()
			},
			wantState: domain.StateGoodDeal,
			wantMode:  domain.QuoteModeMarket,
		},
		{
			name:     "historic setting uses the full route",
			historic: true,
			setup: func(mc *mocks.MockClient) {
				mc.EXPECT().QueryFull(mock.Anything, mock.Anything).Return(full(130, 100, 110), nil).Once()
			},
			wantState: domain.StateBadDeal,
			wantMode:  domain.QuoteModeFull,
		},
		{
			name: "forced full query is a follow-up",
			full: true,
			setup: func(mc *mocks.MockClient) {
				mc.EXPECT().QueryFull(mock.Anything, mock.Anything).Return(full(110, 140, 150), nil).Once()
			},
			wantState: domain.StateGoodDeal,
			wantMode:  domain.QuoteModeFull,
			followUp:  true,
		},
		{
			name: "no data",
			setup: func(mc *mocks.MockClient) {
				mc.EXPECT().QueryMarket(mock.Anything, mock.Anything).Return(domain.MarketQuote{}, oracle.ErrNoData).Once()
			},
			wantState: domain.StateNoMarketData,
		},
		{
			name: "offline",
			setup: func(mc *mocks.MockClient) {
				mc.EXPECT().QueryMarket(mock.Anything, mock.Anything).
					Return(domain.MarketQuote{}, &oracle.TransportError{Route: "market", Err: assert.AnError}).Once()
			},
			wantState: domain.StateOracleOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mc := mocks.NewMockClient(t)
			tt.setup(mc)

			s := marketSettings()
			s.OracleEnabled = !tt.oracleOff
			s.HistoricEnabled = tt.historic

			d := render.Evaluate(context.Background(), mc, testItem("eval"), s, tt.full)
			assert.Equal(t, tt.wantState, d.State)
			assert.Equal(t, "119.57", d.Economics.MinSellPrice.StringFixed(2))
			assert.Equal(t, tt.followUp, d.FollowUp)
			if tt.wantMode != "" {
				require.NotNil(t, d.Quote)
				assert.Equal(t, tt.wantMode, d.Quote.Mode)
				assert.NotNil(t, d.Profit)
			} else {
				assert.Nil(t, d.Quote)
			}
		})
	}
}

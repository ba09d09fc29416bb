package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/internal/api/handlers"
	"github.com/luticapital/arbitrage-helper/internal/render"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

type fakeDecisions struct {
	views     []domain.DecisionView
	deeperErr error
}

func (f *fakeDecisions) Decisions() []domain.DecisionView {
	return f.views
}

func (f *fakeDecisions) Decision(key domain.TargetKey) (domain.DecisionView, bool) {
	for _, v := range f.views {
		if v.Target == key {
			return v, true
		}
	}
	return domain.DecisionView{}, false
}

func (f *fakeDecisions) RequestDeeper(_ context.Context, key domain.TargetKey) (domain.DecisionView, error) {
	if f.deeperErr != nil {
		return domain.DecisionView{}, f.deeperErr
	}
	v, ok := f.Decision(key)
	if !ok {
		return v, fmt.Errorf("%w: %s", render.ErrUnknownTarget, key)
	}
	v.Previous = v.Decision.State
	v.Decision.State = domain.StateLoading
	return v, nil
}

func view(key domain.TargetKey, mode domain.PageMode, state domain.DecisionState) domain.DecisionView {
	return domain.DecisionView{
		Target: key,
		Mode:   mode,
		Item: domain.ListedItem{
			ItemIdentity: domain.ItemIdentity{Name: "AK-47 | Redline", Wear: domain.WearFieldTested},
			Price:        decimal.NewFromInt(100),
			Target:       key,
		},
		Decision: domain.Decision{State: state},
		Deeper:   state == domain.StateGoodDeal || state == domain.StateBadDeal,
	}
}

func liveDecisions() *fakeDecisions {
	return &fakeDecisions{views: []domain.DecisionView{
		view("detail:aa", domain.ModeDetail, domain.StateGoodDeal),
		view("grid:1", domain.ModeGrid, domain.StateBadDeal),
		view("grid:2", domain.ModeGrid, domain.StateNoMarketData),
	}}
}

func TestListDecisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantTotal int
	}{
		{name: "all", query: "", wantTotal: 3},
		{name: "by mode", query: "?mode=grid", wantTotal: 2},
		{name: "by state", query: "?state=good_deal", wantTotal: 1},
		{name: "by mode and state", query: "?mode=detail&state=bad_deal", wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterDecisionRoutes(api, handlers.NewDecisionsHandler(liveDecisions()))

			resp := api.Get("/api/v1/decisions" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code)

			var body struct {
				Decisions []domain.DecisionView `json:"decisions"`
				Total     int                   `json:"total"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.wantTotal, body.Total)
			assert.Len(t, body.Decisions, tt.wantTotal)
		})
	}
}

func TestListDecisions_InvalidMode(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterDecisionRoutes(api, handlers.NewDecisionsHandler(liveDecisions()))

	resp := api.Get("/api/v1/decisions?mode=sideways")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{name: "found", key: "grid:1", wantStatus: http.StatusOK},
		{name: "not found", key: "grid:9", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterDecisionRoutes(api, handlers.NewDecisionsHandler(liveDecisions()))

			resp := api.Get("/api/v1/decisions/" + tt.key)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, resp.Body.String(), `"target":"`+tt.key+`"`)
				assert.Contains(t, resp.Body.String(), `"price":"100"`)
			}
		})
	}
}

func TestRequestDeeper(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		deeperErr  error
		wantStatus int
		wantState  domain.DecisionState
	}{
		{
			name:       "starts deeper query",
			key:        "detail:aa",
			wantStatus: http.StatusOK,
			wantState:  domain.StateLoading,
		},
		{
			name:       "unknown target",
			key:        "detail:zz",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not a market verdict",
			key:        "grid:2",
			deeperErr:  fmt.Errorf("%w: state no_market_data", render.ErrDeeperUnavailable),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "renderer closed",
			key:        "detail:aa",
			deeperErr:  render.ErrRendererClosed,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := liveDecisions()
			d.deeperErr = tt.deeperErr

			_, api := humatest.New(t)
			handlers.RegisterDecisionRoutes(api, handlers.NewDecisionsHandler(d))

			resp := api.Post("/api/v1/decisions/" + tt.key + "/deeper")
			require.Equal(t, tt.wantStatus, resp.Code)

			if tt.wantStatus == http.StatusOK {
				var got domain.DecisionView
				require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
				assert.Equal(t, tt.wantState, got.Decision.State)
				assert.Equal(t, domain.StateGoodDeal, got.Previous)
			}
		})
	}
}

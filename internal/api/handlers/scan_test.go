package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/internal/api/handlers"
	"github.com/luticapital/arbitrage-helper/internal/observer"
	"github.com/luticapital/arbitrage-helper/pkg/extract"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

type fakeObserver struct {
	pollRes   observer.Result
	pollErr   error
	handled   *goquery.Document
	handleErr error
}

func (f *fakeObserver) Poll(context.Context) (observer.Result, error) {
	return f.pollRes, f.pollErr
}

func (f *fakeObserver) Handle(_ context.Context, doc *goquery.Document) (observer.Result, error) {
	f.handled = doc
	if f.handleErr != nil {
		return observer.Result{}, f.handleErr
	}
	return observer.Result{Mode: domain.ModeGrid}, nil
}

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		res        observer.Result
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unchanged page",
			res:        observer.Result{Mode: domain.ModeGrid},
			wantStatus: http.StatusOK,
			wantBody:   `"changed":false`,
		},
		{
			name: "grid scanned",
			res: observer.Result{Mode: domain.ModeGrid, Changed: true, Marks: []domain.GridMark{
				{Target: "grid:1", Verdict: domain.VerdictGood},
			}},
			wantStatus: http.StatusOK,
			wantBody:   `"verdict":"good"`,
		},
		{
			name:       "item still rendering",
			err:        fmt.Errorf("extracting detail item: %w", extract.ErrNotRendered),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "page unreachable",
			err:        errors.New("fetching page: status 502"),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterScanRoutes(api, handlers.NewScanHandler(&fakeObserver{pollRes: tt.res, pollErr: tt.err}))

			resp := api.Post("/api/v1/scan")
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestPushPage(t *testing.T) {
	t.Parallel()

	obs := &fakeObserver{}
	_, api := humatest.New(t)
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(obs))

	resp := api.Post("/api/v1/page", map[string]any{
		"html": `<ul class="grid"><li class="product-box" id="a1">x</li></ul>`,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"changed":true`)

	require.NotNil(t, obs.handled)
	assert.Equal(t, 1, obs.handled.Find("li.product-box").Length())
}

func TestPushPage_EmptyBody(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(&fakeObserver{}))

	resp := api.Post("/api/v1/page", map[string]any{"html": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.GetSettings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestIsConnectionRefused(t *testing.T) {
	t.Parallel()

	dial := func(errno syscall.Errno) error {
		return &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", errno)}
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "refused", err: dial(syscall.ECONNREFUSED), want: true},
		{name: "timed out", err: dial(syscall.ETIMEDOUT), want: false},
		{name: "message only", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isConnectionRefused(tt.err))
		})
	}
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{
			name:       "problem document",
			status:     http.StatusConflict,
			body:       `{"title":"Conflict","status":409,"detail":"deeper data not available for this decision: state loading"}`,
			wantDetail: "deeper data not available for this decision: state loading",
		},
		{
			name:       "plain body",
			status:     http.StatusInternalServerError,
			body:       "boom\n",
			wantDetail: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).RequestDeeper(context.Background(), "detail:aa")
			require.Error(t, err)
			assert.True(t, IsStatus(err, tt.status))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
		})
	}
}

func TestClient_ListDecisions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/decisions", r.URL.Path)
		assert.Equal(t, "grid", r.URL.Query().Get("mode"))
		assert.Empty(t, r.URL.Query().Get("state"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(DecisionList{
			Decisions: []domain.DecisionView{{Target: "grid:1", Mode: domain.ModeGrid}},
			Total:     1,
		})
	}))
	defer srv.Close()

	out, err := New(srv.URL).ListDecisions(context.Background(), "grid", "")
	require.NoError(t, err)
	require.Len(t, out.Decisions, 1)
	assert.Equal(t, domain.TargetKey("grid:1"), out.Decisions[0].Target)
}

func TestClient_RequestDeeper(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/decisions/detail:aa/deeper", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.DecisionView{
			Target:   "detail:aa",
			Decision: domain.Decision{State: domain.StateLoading},
		})
	}))
	defer srv.Close()

	v, err := New(srv.URL).RequestDeeper(context.Background(), "detail:aa")
	require.NoError(t, err)
	assert.Equal(t, domain.StateLoading, v.Decision.State)
}

func TestClient_ListHistory(t *testing.T) {
	t.Parallel()

	followUp := true
	since := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/v1/history", r.URL.Path)
		assert.Equal(t, "asiimov", q.Get("name"))
		assert.Equal(t, "good_deal,bad_deal", q.Get("state"))
		assert.Equal(t, "true", q.Get("follow_up"))
		assert.Equal(t, "2026-06-01T08:00:00Z", q.Get("since"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Empty(t, q.Get("offset"))
		_ = json.NewEncoder(w).Encode(HistoryPage{
			Decisions: []domain.DecisionRecord{{ID: "r1", Price: decimal.NewFromInt(50)}},
			Total:     1,
			Limit:     10,
		})
	}))
	defer srv.Close()

	page, err := New(srv.URL).ListHistory(context.Background(), &HistoryQuery{
		Name:     "asiimov",
		States:   []string{"good_deal", "bad_deal"},
		FollowUp: &followUp,
		Since:    since,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, page.Decisions, 1)
	assert.Equal(t, "50", page.Decisions[0].Price.String())
}

func TestClient_UpdateSettings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "version")
		assert.InDelta(t, 5.0, body["fee_percent"], 0)

		_ = json.NewEncoder(w).Encode(domain.Settings{FeePercent: 5, GridScanLimit: 5, Version: 2})
	}))
	defer srv.Close()

	s := domain.DefaultSettings()
	s.FeePercent = 5
	s.Version = 99

	got, err := New(srv.URL).UpdateSettings(context.Background(), &s)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}

func TestClient_Evaluate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/evaluate", r.URL.Path)
		var req EvaluateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "$100.00", req.Price)
		_ = json.NewEncoder(w).Encode(Evaluation{
			Decision: domain.Decision{State: domain.StateGoodDeal},
		})
	}))
	defer srv.Close()

	ev, err := New(srv.URL).Evaluate(context.Background(), &EvaluateRequest{
		Name: "AK-47 | Redline", Wear: "Field-Tested", Price: "$100.00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateGoodDeal, ev.Decision.State)
}

func TestClient_PushPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/page", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["html"], "product-box")
		_ = json.NewEncoder(w).Encode(ScanResult{Mode: domain.ModeGrid, Changed: true})
	}))
	defer srv.Close()

	res, err := New(srv.URL).PushPage(context.Background(), `<li class="product-box"></li>`)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, domain.ModeGrid, res.Mode)
}

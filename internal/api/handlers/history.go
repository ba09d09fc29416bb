package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/luticapital/arbitrage-helper/internal/store"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

const defaultStatsWindow = 24 * time.Hour

// HistoryProvider queries persisted decisions.
type HistoryProvider interface {
	ListDecisions(ctx context.Context, q *store.DecisionQuery) ([]domain.DecisionRecord, int, error)
	CountDecisionsByState(ctx context.Context, since time.Time) (map[domain.DecisionState]int, error)
}

// HistoryHandler handles decision history endpoints. A nil provider means
// history is disabled and every request answers 503.
type HistoryHandler struct {
	store   HistoryProvider
	nowFunc func() time.Time
}

// HistoryOption configures a HistoryHandler.
type HistoryOption func(*HistoryHandler)

// WithHistoryNowFunc overrides the clock for testing.
func WithHistoryNowFunc(f func() time.Time) HistoryOption {
	return func(h *HistoryHandler) {
		h.nowFunc = f
	}
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s HistoryProvider, opts ...HistoryOption) *HistoryHandler {
	h := &HistoryHandler{store: s, nowFunc: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// --- Input/Output types ---

// ListHistoryInput filters persisted decisions.
type ListHistoryInput struct {
	Name     string `query:"name"      doc:"Case-insensitive substring of the item name"`
	Wear     string `query:"wear"      doc:"Filter by wear grade"                        enum:"factory_new,minimal_wear,field_tested,well_worn,battle_scarred,unknown,"`
	State    string `query:"state"     doc:"Comma-separated decision states"`
	FollowUp string `query:"follow_up" doc:"Only on-demand deeper results"                enum:"true,false,"`
	Since    string `query:"since"     doc:"RFC 3339 lower bound on decided_at"`
	Limit    int    `query:"limit"     doc:"Number of results (default 50)"                                                                             minimum:"1" maximum:"500"`
	Offset   int    `query:"offset"    doc:"Pagination offset"                                                                                          minimum:"0"`
	OrderBy  string `query:"order_by"  doc:"Sort field"                                  enum:"decided_at,price,name,"`
}

// ListHistoryOutput is the response for listing persisted decisions.
type ListHistoryOutput struct {
	Body struct {
		Decisions []domain.DecisionRecord `json:"decisions"`
		Total     int                     `json:"total"`
		Limit     int                     `json:"limit"`
		Offset    int                     `json:"offset"`
	}
}

// HistoryStatsInput selects the stats window.
type HistoryStatsInput struct {
	Window string `query:"window" doc:"Lookback window as a Go duration (default 24h)" example:"24h"`
}

// HistoryStatsOutput holds per-state decision counts.
type HistoryStatsOutput struct {
	Body struct {
		Since  time.Time                    `json:"since"`
		Counts map[domain.DecisionState]int `json:"counts"`
		Total  int                          `json:"total"`
	}
}

// --- Handlers ---

// ListHistory returns persisted decisions matching the filters, newest first
// by default.
func (h *HistoryHandler) ListHistory(
	ctx context.Context,
	input *ListHistoryInput,
) (*ListHistoryOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("decision history is disabled")
	}

	q := &store.DecisionQuery{
		States:  splitList(input.State),
		Limit:   input.Limit,
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	}
	if input.Name != "" {
		q.Name = &input.Name
	}
	if input.Wear != "" {
		q.Wear = &input.Wear
	}
	if input.FollowUp != "" {
		f := input.FollowUp == "true"
		q.FollowUp = &f
	}
	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, huma.Error400BadRequest("since must be an RFC 3339 timestamp")
		}
		q.Since = &since
	}

	records, total, err := h.store.ListDecisions(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("history query failed: " + err.Error())
	}
	if records == nil {
		records = []domain.DecisionRecord{}
	}

	resp := &ListHistoryOutput{}
	resp.Body.Decisions = records
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// HistoryStats returns per-state decision counts over a lookback window.
func (h *HistoryHandler) HistoryStats(
	ctx context.Context,
	input *HistoryStatsInput,
) (*HistoryStatsOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("decision history is disabled")
	}

	window := defaultStatsWindow
	if input.Window != "" {
		d, err := time.ParseDuration(input.Window)
		if err != nil || d <= 0 {
			return nil, huma.Error400BadRequest("window must be a positive duration such as 24h")
		}
		window = d
	}
	since := h.nowFunc().Add(-window)

	counts, err := h.store.CountDecisionsByState(ctx, since)
	if err != nil {
		return nil, huma.Error500InternalServerError("counting decisions failed: " + err.Error())
	}

	resp := &HistoryStatsOutput{}
	resp.Body.Since = since
	resp.Body.Counts = counts
	for _, n := range counts {
		resp.Body.Total += n
	}
	return resp, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RegisterHistoryRoutes registers decision history endpoints with the Huma API.
func RegisterHistoryRoutes(api huma.API, h *HistoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "List decision history",
		Description: "Returns persisted terminal decisions with optional filters and pagination.",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, h.ListHistory)

	huma.Register(api, huma.Operation{
		OperationID: "get-history-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/stats",
		Summary:     "Get decision counts by state",
		Description: "Returns how many decisions ended in each state during the lookback window.",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, h.HistoryStats)
}

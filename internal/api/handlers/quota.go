package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/luticapital/arbitrage-helper/internal/oracle"
)

// QuotaHandler reports how much of the oracle call budget is left.
type QuotaHandler struct {
	rl *oracle.RateLimiter
}

// NewQuotaHandler creates a QuotaHandler. A nil limiter means oracle calls
// are neither paced nor budgeted.
func NewQuotaHandler(rl *oracle.RateLimiter) *QuotaHandler {
	return &QuotaHandler{rl: rl}
}

// QuotaBody describes the oracle budget. DailyLimit and Remaining are
// omitted when no daily budget is configured.
type QuotaBody struct {
	Unlimited  bool      `json:"unlimited"             doc:"No daily budget is configured"`
	Exhausted  bool      `json:"exhausted"             doc:"The daily budget is spent; oracle calls report offline until reset_at"`
	DailyLimit *int64    `json:"daily_limit,omitempty" doc:"Configured daily oracle call budget"                                       example:"20000"`
	Remaining  *int64    `json:"remaining,omitempty"   doc:"Calls left in the current window"                                          example:"19858"`
	Used       int64     `json:"used"                  doc:"Oracle calls made in the current 24-hour window"                            example:"142"`
	PerSecond  float64   `json:"per_second"            doc:"Sustained oracle call rate"                                                example:"2"`
	Burst      int       `json:"burst"                 doc:"Calls allowed back to back before pacing applies"                          example:"4"`
	ResetAt    time.Time `json:"reset_at"              doc:"When the current window expires"                                           example:"2026-06-16T14:30:00Z"`
}

// QuotaOutput is the response for GET /api/v1/quota.
type QuotaOutput struct {
	Body QuotaBody
}

// GetQuota returns the oracle budget.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	if h.rl == nil {
		return &QuotaOutput{Body: QuotaBody{Unlimited: true}}, nil
	}
	return &QuotaOutput{Body: quotaBody(h.rl.Quota())}, nil
}

func quotaBody(q oracle.Quota) QuotaBody {
	b := QuotaBody{
		Unlimited: q.Unlimited(),
		Exhausted: q.Exhausted(),
		Used:      q.Used,
		PerSecond: q.PerSecond,
		Burst:     q.Burst,
		ResetAt:   q.ResetAt,
	}
	if !b.Unlimited {
		limit, left := q.Limit, q.Left()
		b.DailyLimit, b.Remaining = &limit, &left
	}
	return b
}

// RegisterQuotaRoutes registers the quota endpoint.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get the oracle call budget",
		Description: "Reports the pacing rate, the calls made in the current 24-hour window and, " +
			"when a daily budget is configured, how many remain before oracle calls are refused.",
		Tags: []string{"oracle"},
	}, h.GetQuota)
}

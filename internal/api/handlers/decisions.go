package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/luticapital/arbitrage-helper/internal/render"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// DecisionProvider exposes the live decisions and the on-demand deeper query.
type DecisionProvider interface {
	Decisions() []domain.DecisionView
	Decision(key domain.TargetKey) (domain.DecisionView, bool)
	RequestDeeper(ctx context.Context, key domain.TargetKey) (domain.DecisionView, error)
}

// DecisionsHandler handles live decision endpoints.
type DecisionsHandler struct {
	decisions DecisionProvider
}

// NewDecisionsHandler creates a new DecisionsHandler.
func NewDecisionsHandler(d DecisionProvider) *DecisionsHandler {
	return &DecisionsHandler{decisions: d}
}

// --- Input/Output types ---

// ListDecisionsInput filters the live decisions.
type ListDecisionsInput struct {
	Mode  string `query:"mode"  doc:"Filter by page mode"      enum:"detail,grid,"`
	State string `query:"state" doc:"Filter by decision state" enum:"loading,quick_calc_only,good_deal,bad_deal,no_market_data,oracle_offline,"`
}

// ListDecisionsOutput is the response for listing live decisions.
type ListDecisionsOutput struct {
	Body struct {
		Decisions []domain.DecisionView `json:"decisions"`
		Total     int                   `json:"total"`
	}
}

// DecisionKeyInput addresses one decision by its target key.
type DecisionKeyInput struct {
	Key string `path:"key" doc:"Target key, e.g. detail:9f2c41d07ab3e210"`
}

// DecisionOutput is a single decision view.
type DecisionOutput struct {
	Body domain.DecisionView
}

// --- Handlers ---

// ListDecisions returns the live decisions, oldest first.
func (h *DecisionsHandler) ListDecisions(
	_ context.Context,
	input *ListDecisionsInput,
) (*ListDecisionsOutput, error) {
	views := h.decisions.Decisions()

	out := make([]domain.DecisionView, 0, len(views))
	for i := range views {
		v := &views[i]
		if input.Mode != "" && string(v.Mode) != input.Mode {
			continue
		}
		if input.State != "" && string(v.Decision.State) != input.State {
			continue
		}
		out = append(out, *v)
	}

	resp := &ListDecisionsOutput{}
	resp.Body.Decisions = out
	resp.Body.Total = len(out)
	return resp, nil
}

// GetDecision returns the current view for one target.
func (h *DecisionsHandler) GetDecision(
	_ context.Context,
	input *DecisionKeyInput,
) (*DecisionOutput, error) {
	v, ok := h.decisions.Decision(domain.TargetKey(input.Key))
	if !ok {
		return nil, huma.Error404NotFound("decision not found")
	}
	return &DecisionOutput{Body: v}, nil
}

// RequestDeeper starts the market + historic query for a market-mode verdict.
// The returned view is Loading; the final verdict follows on the stream.
func (h *DecisionsHandler) RequestDeeper(
	ctx context.Context,
	input *DecisionKeyInput,
) (*DecisionOutput, error) {
	v, err := h.decisions.RequestDeeper(ctx, domain.TargetKey(input.Key))
	switch {
	case err == nil:
		return &DecisionOutput{Body: v}, nil
	case errors.Is(err, render.ErrUnknownTarget):
		return nil, huma.Error404NotFound("decision not found")
	case errors.Is(err, render.ErrDeeperUnavailable):
		return nil, huma.Error409Conflict(err.Error())
	case errors.Is(err, render.ErrRendererClosed):
		return nil, huma.Error503ServiceUnavailable("renderer is shutting down")
	default:
		return nil, huma.Error500InternalServerError("requesting deeper data failed: " + err.Error())
	}
}

// RegisterDecisionRoutes registers live decision endpoints with the Huma API.
func RegisterDecisionRoutes(api huma.API, h *DecisionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-decisions",
		Method:      http.MethodGet,
		Path:        "/api/v1/decisions",
		Summary:     "List live decisions",
		Description: "Returns every decision currently rendered, oldest first, optionally filtered by page mode and state.",
		Tags:        []string{"decisions"},
	}, h.ListDecisions)

	huma.Register(api, huma.Operation{
		OperationID: "get-decision",
		Method:      http.MethodGet,
		Path:        "/api/v1/decisions/{key}",
		Summary:     "Get a decision",
		Description: "Returns the current decision for one target key.",
		Tags:        []string{"decisions"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetDecision)

	huma.Register(api, huma.Operation{
		OperationID: "request-deeper",
		Method:      http.MethodPost,
		Path:        "/api/v1/decisions/{key}/deeper",
		Summary:     "Request deeper data",
		Description: "Re-queries the oracle with market and historic data for a market-mode " +
			"good or bad deal. The decision returns to loading and resolves against the fair value.",
		Tags:   []string{"decisions"},
		Errors: []int{http.StatusNotFound, http.StatusConflict, http.StatusServiceUnavailable},
	}, h.RequestDeeper)
}

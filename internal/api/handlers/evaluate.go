package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/luticapital/arbitrage-helper/internal/oracle"
	"github.com/luticapital/arbitrage-helper/internal/render"
	"github.com/luticapital/arbitrage-helper/pkg/extract"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// SettingsProvider returns the settings snapshot currently in force.
type SettingsProvider interface {
	Current() domain.Settings
}

// EvaluateHandler runs the decision pipeline for ad-hoc items.
type EvaluateHandler struct {
	oracle   oracle.Client
	settings SettingsProvider
}

// NewEvaluateHandler creates a new EvaluateHandler.
func NewEvaluateHandler(c oracle.Client, s SettingsProvider) *EvaluateHandler {
	return &EvaluateHandler{oracle: c, settings: s}
}

// EvaluateInput describes an item as it appears on the marketplace.
type EvaluateInput struct {
	Body struct {
		Name  string `json:"name"            doc:"Item name"                                         example:"AK-47 | Redline" minLength:"1"`
		Wear  string `json:"wear,omitempty"  doc:"Wear label as displayed, normalized before lookup" example:"Field-Tested"`
		Price string `json:"price"           doc:"Listing price, plain or with a currency symbol"    example:"$100.00"`
		Full  bool   `json:"full,omitempty"  doc:"Query market and historic data regardless of settings"`
	}
}

// EvaluateOutput is the verdict for one ad-hoc item.
type EvaluateOutput struct {
	Body struct {
		Item            domain.ListedItem `json:"item"`
		Decision        domain.Decision   `json:"decision"`
		SettingsVersion int64             `json:"settings_version"`
	}
}

// Evaluate computes the break-even price and, unless the oracle is disabled,
// waits for the oracle verdict.
func (h *EvaluateHandler) Evaluate(
	ctx context.Context,
	input *EvaluateInput,
) (*EvaluateOutput, error) {
	price, ok := extract.ParseAmount(input.Body.Price)
	if !ok {
		return nil, huma.Error422UnprocessableEntity("price must be a positive amount")
	}

	item := domain.ListedItem{
		ItemIdentity: domain.ItemIdentity{
			Name:    strings.TrimSpace(input.Body.Name),
			Wear:    extract.NormalizeWear(input.Body.Wear),
			RawWear: strings.TrimSpace(input.Body.Wear),
		},
		Price: price,
	}

	s := h.settings.Current()
	resp := &EvaluateOutput{}
	resp.Body.Item = item
	resp.Body.Decision = render.Evaluate(ctx, h.oracle, item, s, input.Body.Full)
	resp.Body.SettingsVersion = s.Version
	return resp, nil
}

// RegisterEvaluateRoutes registers the evaluate endpoint with the Huma API.
func RegisterEvaluateRoutes(api huma.API, h *EvaluateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "evaluate-item",
		Method:      http.MethodPost,
		Path:        "/api/v1/evaluate",
		Summary:     "Evaluate an item",
		Description: "Runs the break-even calculation and the oracle lookup for an item that is not on the observed page.",
		Tags:        []string{"decisions"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.Evaluate)
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/luticapital/arbitrage-helper/internal/settings"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// SettingsUpdater reads and replaces the settings snapshot.
type SettingsUpdater interface {
	SettingsProvider
	Update(next domain.Settings) (domain.Settings, error)
}

// SettingsHandler handles the user settings endpoints.
type SettingsHandler struct {
	settings SettingsUpdater
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s SettingsUpdater) *SettingsHandler {
	return &SettingsHandler{settings: s}
}

// SettingsOutput is the settings snapshot in force.
type SettingsOutput struct {
	Body domain.Settings
}

// UpdateSettingsInput replaces the user settings. The version is assigned
// by the server.
type UpdateSettingsInput struct {
	Body struct {
		FeePercent      float64 `json:"fee_percent"      doc:"Marketplace fee in percent"          minimum:"0" exclusiveMaximum:"100"`
		MarginPercent   float64 `json:"margin_percent"   doc:"Target margin in percent"            minimum:"0" maximum:"100"`
		OracleEnabled   bool    `json:"oracle_enabled"   doc:"Query the price oracle"`
		HistoricEnabled bool    `json:"historic_enabled" doc:"Include historic data in every query"`
		GridScanLimit   int     `json:"grid_scan_limit"  doc:"Items per grid scan"                 minimum:"1" maximum:"500"`
	}
}

// GetSettings returns the current settings snapshot.
func (h *SettingsHandler) GetSettings(_ context.Context, _ *struct{}) (*SettingsOutput, error) {
	return &SettingsOutput{Body: h.settings.Current()}, nil
}

// UpdateSettings validates and installs a new settings snapshot. Live
// decisions are re-rendered under it.
func (h *SettingsHandler) UpdateSettings(
	_ context.Context,
	input *UpdateSettingsInput,
) (*SettingsOutput, error) {
	next := domain.Settings{
		FeePercent:      input.Body.FeePercent,
		MarginPercent:   input.Body.MarginPercent,
		OracleEnabled:   input.Body.OracleEnabled,
		HistoricEnabled: input.Body.HistoricEnabled,
		GridScanLimit:   input.Body.GridScanLimit,
	}

	cur, err := h.settings.Update(next)
	if err != nil {
		if errors.Is(err, settings.ErrInvalid) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error500InternalServerError("saving settings failed: " + err.Error())
	}
	return &SettingsOutput{Body: cur}, nil
}

// RegisterSettingsRoutes registers the settings endpoints with the Huma API.
func RegisterSettingsRoutes(api huma.API, h *SettingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the settings snapshot new decisions are rendered with.",
		Tags:        []string{"settings"},
	}, h.GetSettings)

	huma.Register(api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Validates and installs new settings. Every live decision is discarded and rendered again.",
		Tags:        []string{"settings"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.UpdateSettings)
}

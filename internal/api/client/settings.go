package client

import (
	"context"
	"time"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// EvaluateRequest describes an ad-hoc item.
type EvaluateRequest struct {
	Name  string `json:"name"`
	Wear  string `json:"wear,omitempty"`
	Price string `json:"price"`
	Full  bool   `json:"full,omitempty"`
}

// Evaluation is the verdict for an ad-hoc item.
type Evaluation struct {
	Item            domain.ListedItem `json:"item"`
	Decision        domain.Decision   `json:"decision"`
	SettingsVersion int64             `json:"settings_version"`
}

// Quota is the oracle budget status.
type Quota struct {
	Unlimited  bool      `json:"unlimited"`
	Exhausted  bool      `json:"exhausted"`
	DailyLimit *int64    `json:"daily_limit,omitempty"`
	Remaining  *int64    `json:"remaining,omitempty"`
	Used       int64     `json:"used"`
	PerSecond  float64   `json:"per_second"`
	Burst      int       `json:"burst"`
	ResetAt    time.Time `json:"reset_at"`
}

// settingsRequest omits the server-assigned version.
type settingsRequest struct {
	FeePercent      float64 `json:"fee_percent"`
	MarginPercent   float64 `json:"margin_percent"`
	OracleEnabled   bool    `json:"oracle_enabled"`
	HistoricEnabled bool    `json:"historic_enabled"`
	GridScanLimit   int     `json:"grid_scan_limit"`
}

// GetSettings returns the settings snapshot in force.
func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var out domain.Settings
	if err := c.get(ctx, "/api/v1/settings", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings replaces the settings and returns the installed snapshot.
func (c *Client) UpdateSettings(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	req := settingsRequest{
		FeePercent:      s.FeePercent,
		MarginPercent:   s.MarginPercent,
		OracleEnabled:   s.OracleEnabled,
		HistoricEnabled: s.HistoricEnabled,
		GridScanLimit:   s.GridScanLimit,
	}

	var out domain.Settings
	if err := c.put(ctx, "/api/v1/settings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Evaluate runs the decision pipeline for an item not on the observed page.
func (c *Client) Evaluate(ctx context.Context, req *EvaluateRequest) (*Evaluation, error) {
	var out Evaluation
	if err := c.post(ctx, "/api/v1/evaluate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuota returns the oracle budget status.
func (c *Client) GetQuota(ctx context.Context) (*Quota, error) {
	var out Quota
	if err := c.get(ctx, "/api/v1/quota", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

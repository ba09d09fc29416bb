package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// DecisionList is a page of live decisions.
type DecisionList struct {
	Decisions []domain.DecisionView `json:"decisions"`
	Total     int                   `json:"total"`
}

// HistoryQuery filters persisted decisions.
type HistoryQuery struct {
	Name     string
	Wear     string
	States   []string
	FollowUp *bool
	Since    time.Time
	Limit    int
	Offset   int
	OrderBy  string
}

// HistoryPage is a page of persisted decisions.
type HistoryPage struct {
	Decisions []domain.DecisionRecord `json:"decisions"`
	Total     int                     `json:"total"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
}

// HistoryStats holds per-state decision counts.
type HistoryStats struct {
	Since  time.Time                    `json:"since"`
	Counts map[domain.DecisionState]int `json:"counts"`
	Total  int                          `json:"total"`
}

// ListDecisions returns live decisions, optionally filtered by page mode and
// state.
func (c *Client) ListDecisions(ctx context.Context, mode, state string) (*DecisionList, error) {
	v := url.Values{}
	setNonEmpty(v, "mode", mode)
	setNonEmpty(v, "state", state)

	var out DecisionList
	if err := c.get(ctx, withQuery("/api/v1/decisions", v), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDecision returns the live decision for a target key.
func (c *Client) GetDecision(ctx context.Context, key string) (*domain.DecisionView, error) {
	var out domain.DecisionView
	if err := c.get(ctx, "/api/v1/decisions/"+url.PathEscape(key), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestDeeper asks for market and historic data on a market-mode verdict.
func (c *Client) RequestDeeper(ctx context.Context, key string) (*domain.DecisionView, error) {
	var out domain.DecisionView
	if err := c.post(ctx, "/api/v1/decisions/"+url.PathEscape(key)+"/deeper", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListHistory returns persisted decisions matching q.
func (c *Client) ListHistory(ctx context.Context, q *HistoryQuery) (*HistoryPage, error) {
	v := url.Values{}
	if q != nil {
		setNonEmpty(v, "name", q.Name)
		setNonEmpty(v, "wear", q.Wear)
		setNonEmpty(v, "state", strings.Join(q.States, ","))
		if q.FollowUp != nil {
			v.Set("follow_up", strconv.FormatBool(*q.FollowUp))
		}
		if !q.Since.IsZero() {
			v.Set("since", q.Since.UTC().Format(time.RFC3339))
		}
		setPositive(v, "limit", q.Limit)
		setPositive(v, "offset", q.Offset)
		setNonEmpty(v, "order_by", q.OrderBy)
	}

	var out HistoryPage
	if err := c.get(ctx, withQuery("/api/v1/history", v), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHistoryStats returns per-state counts over the lookback window. A zero
// window uses the server default.
func (c *Client) GetHistoryStats(ctx context.Context, window time.Duration) (*HistoryStats, error) {
	v := url.Values{}
	if window > 0 {
		v.Set("window", window.String())
	}

	var out HistoryStats
	if err := c.get(ctx, withQuery("/api/v1/history/stats", v), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

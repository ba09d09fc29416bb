package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// GridMarks is the grid endpoint response.
type GridMarks struct {
	Marks []domain.GridMark          `json:"marks"`
	Total int                        `json:"total"`
	Tally map[domain.GridVerdict]int `json:"tally"`
}

// ScanResult reports what one page observation did.
type ScanResult struct {
	Mode     domain.PageMode      `json:"mode"`
	Changed  bool                 `json:"changed"`
	Started  bool                 `json:"started"`
	Decision *domain.DecisionView `json:"decision,omitempty"`
	Marks    []domain.GridMark    `json:"marks,omitempty"`
}

// GetGrid returns the current grid marks, optionally filtered by verdict.
func (c *Client) GetGrid(ctx context.Context, verdict string) (*GridMarks, error) {
	v := url.Values{}
	setNonEmpty(v, "verdict", verdict)

	var out GridMarks
	if err := c.get(ctx, withQuery("/api/v1/grid", v), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scan makes the server poll the observed page now.
func (c *Client) Scan(ctx context.Context) (*ScanResult, error) {
	var out ScanResult
	if err := c.post(ctx, "/api/v1/scan", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PushPage hands a page snapshot to the server's observer.
func (c *Client) PushPage(ctx context.Context, html string) (*ScanResult, error) {
	var out ScanResult
	if err := c.post(ctx, "/api/v1/page", map[string]string{"html": html}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func setNonEmpty(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func setPositive(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

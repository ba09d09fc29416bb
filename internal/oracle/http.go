package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

const (
	defaultBaseURL = "http://127.0.0.1:5000"
	marketPath     = "/oracle/market"
	fullPath       = "/oracle"
	maxBodyBytes   = 1 << 20
)

// HTTPClient implements Client against the oracle's JSON-over-HTTP routes.
type HTTPClient struct {
	baseURL     string
	client      *http.Client
	rateLimiter *RateLimiter
}

// HTTPOption configures the HTTPClient.
type HTTPOption func(*HTTPClient)

// WithBaseURL overrides the default oracle address.
func WithBaseURL(u string) HTTPOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default HTTP client. Request timeouts are the
// transport's responsibility.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithRateLimiter makes every query wait on r first.
func WithRateLimiter(r *RateLimiter) HTTPOption {
	return func(c *HTTPClient) {
		c.rateLimiter = r
	}
}

// NewHTTPClient creates a new oracle client.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type oracleRequest struct {
	Name string `json:"name"`
	Wear string `json:"wear"`
}

type oracleResponse struct {
	SecondLowest decimal.NullDecimal `json:"second_lowest"`
	Historic     decimal.NullDecimal `json:"historic"`
	FairValue    decimal.NullDecimal `json:"fair_value"`
	Error        json.RawMessage     `json:"error"`
}

func (r *oracleResponse) hasError() bool {
	switch strings.TrimSpace(string(r.Error)) {
	case "", "null", "false", `""`:
		return false
	default:
		return true
	}
}

// QueryMarket implements Client.QueryMarket via POST /oracle/market.
func (c *HTTPClient) QueryMarket(
	ctx context.Context,
	id domain.ItemIdentity,
) (domain.MarketQuote, error) {
	resp, err := c.query(ctx, RouteMarket, marketPath, id)
	if err != nil {
		return domain.MarketQuote{}, err
	}

	if !resp.SecondLowest.Valid {
		metrics.OracleRequestsTotal.WithLabelValues(RouteMarket, string(OutcomeNoData)).Inc()
		return domain.MarketQuote{}, fmt.Errorf("%w: second_lowest missing", ErrNoData)
	}

	metrics.OracleRequestsTotal.WithLabelValues(RouteMarket, string(OutcomeSuccess)).Inc()
	return domain.MarketQuote{MarketPrice: resp.SecondLowest.Decimal}, nil
}

// QueryFull implements Client.QueryFull via POST /oracle. A reply without a
// fair value means there was not enough history and is reported as ErrNoData.
func (c *HTTPClient) QueryFull(
	ctx context.Context,
	id domain.ItemIdentity,
) (domain.FullQuote, error) {
	resp, err := c.query(ctx, RouteFull, fullPath, id)
	if err != nil {
		return domain.FullQuote{}, err
	}

	if !resp.FairValue.Valid || !resp.SecondLowest.Valid || !resp.Historic.Valid {
		metrics.OracleRequestsTotal.WithLabelValues(RouteFull, string(OutcomeNoData)).Inc()
		return domain.FullQuote{}, fmt.Errorf("%w: insufficient history", ErrNoData)
	}

	metrics.OracleRequestsTotal.WithLabelValues(RouteFull, string(OutcomeSuccess)).Inc()
	return domain.FullQuote{
		MarketPrice:   resp.SecondLowest.Decimal,
		HistoricPrice: resp.Historic.Decimal,
		FairValue:     resp.FairValue.Decimal,
	}, nil
}

// query performs the exchange and returns a decoded body, a TransportError,
// or ErrNoData for bodies carrying an error indicator.
func (c *HTTPClient) query(
	ctx context.Context,
	route, path string,
	id domain.ItemIdentity,
) (*oracleResponse, error) {
	resp, err := c.exchange(ctx, route, path, id)
	if err != nil {
		outcome := OutcomeTransportFailure
		if errors.Is(err, ErrNoData) {
			outcome = OutcomeNoData
		}
		metrics.OracleRequestsTotal.WithLabelValues(route, string(outcome)).Inc()
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) exchange(
	ctx context.Context,
	route, path string,
	id domain.ItemIdentity,
) (*oracleResponse, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.OracleDailyLimitHits.Inc()
			}
			return nil, newTransportError(route, fmt.Errorf("rate limit: %w", err))
		}
		metrics.OracleDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	payload, err := json.Marshal(oracleRequest{Name: id.Name, Wear: id.WearLabel()})
	if err != nil {
		return nil, newTransportError(route, fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, newTransportError(route, fmt.Errorf("creating HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.client.Do(req)
	metrics.OracleRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, newTransportError(route, fmt.Errorf("executing request: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, newTransportError(route, fmt.Errorf("reading response body: %w", err))
	}

	if !json.Valid(body) {
		return nil, newTransportError(route, fmt.Errorf(
			"non-JSON response (status %d): %.120s", httpResp.StatusCode, string(body),
		))
	}

	var resp oracleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed fields: %v", ErrNoData, err)
	}

	if resp.hasError() {
		return nil, fmt.Errorf("%w: %s", ErrNoData, string(resp.Error))
	}

	return &resp, nil
}

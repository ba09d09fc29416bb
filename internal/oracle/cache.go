package oracle

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// CachedClient memoizes successful oracle answers for a short TTL so that
// re-renders caused by settings changes do not hit the oracle again.
// Failures are never cached.
type CachedClient struct {
	next  Client
	cache *gocache.Cache
}

// NewCachedClient wraps next with a TTL cache. A ttl of zero or less returns
// a client that always delegates.
func NewCachedClient(next Client, ttl time.Duration) *CachedClient {
	c := &CachedClient{next: next}
	if ttl > 0 {
		c.cache = gocache.New(ttl, 2*ttl)
	}
	return c
}

// QueryMarket implements Client.
func (c *CachedClient) QueryMarket(
	ctx context.Context,
	id domain.ItemIdentity,
) (domain.MarketQuote, error) {
	key := cacheKey(RouteMarket, id)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			metrics.OracleCacheHitsTotal.WithLabelValues(RouteMarket).Inc()
			return v.(domain.MarketQuote), nil
		}
		metrics.OracleCacheMissesTotal.WithLabelValues(RouteMarket).Inc()
	}

	q, err := c.next.QueryMarket(ctx, id)
	if err != nil {
		return q, err
	}
	if c.cache != nil {
		c.cache.SetDefault(key, q)
	}
	return q, nil
}

// QueryFull implements Client.
func (c *CachedClient) QueryFull(
	ctx context.Context,
	id domain.ItemIdentity,
) (domain.FullQuote, error) {
	key := cacheKey(RouteFull, id)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			metrics.OracleCacheHitsTotal.WithLabelValues(RouteFull).Inc()
			return v.(domain.FullQuote), nil
		}
		metrics.OracleCacheMissesTotal.WithLabelValues(RouteFull).Inc()
	}

	q, err := c.next.QueryFull(ctx, id)
	if err != nil {
		return q, err
	}
	if c.cache != nil {
		c.cache.SetDefault(key, q)
	}
	return q, nil
}

// Flush drops every cached answer.
func (c *CachedClient) Flush() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func cacheKey(route string, id domain.ItemIdentity) string {
	return route + "\x00" + id.Name + "\x00" + id.WearLabel()
}

// Package scanner classifies the items of a marketplace grid against the
// oracle's market price, one item at a time.
package scanner

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	"github.com/luticapital/arbitrage-helper/internal/oracle"
	"github.com/luticapital/arbitrage-helper/internal/page"
	"github.com/luticapital/arbitrage-helper/internal/render"
	"github.com/luticapital/arbitrage-helper/internal/surface"
	"github.com/luticapital/arbitrage-helper/pkg/economics"
	"github.com/luticapital/arbitrage-helper/pkg/extract"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// DefaultPause is the wait between oracle queries of consecutive items.
const DefaultPause = 100 * time.Millisecond

// Skip reasons.
const (
	ReasonExtraction   = "extraction failed"
	ReasonSouvenir     = "souvenir"
	ReasonNoMarketData = "no market data"
	ReasonOffline      = "oracle offline"
)

// Scanner runs grid scans. Nodes it has marked are never scanned again until
// Reset.
type Scanner struct {
	client       oracle.Client
	surface      surface.Surface
	extractor    *extract.Extractor
	tracker      *render.Tracker
	pause        time.Duration
	skipSouvenir bool
	sleep        func(context.Context, time.Duration) error
	now          func() time.Time
	log          *slog.Logger

	scanMu sync.Mutex

	mu    sync.RWMutex
	marks map[domain.TargetKey]domain.GridMark
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithPause sets the wait between oracle queries.
func WithPause(d time.Duration) Option {
	return func(s *Scanner) {
		s.pause = d
	}
}

// WithSkipSouvenir marks souvenir items skip without querying the oracle.
func WithSkipSouvenir(skip bool) Option {
	return func(s *Scanner) {
		s.skipSouvenir = skip
	}
}

// WithSleepFunc replaces the pause implementation.
func WithSleepFunc(f func(context.Context, time.Duration) error) Option {
	return func(s *Scanner) {
		s.sleep = f
	}
}

// WithNowFunc sets the clock used for mark timestamps.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Scanner) {
		s.now = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		s.log = l
	}
}

// WithExtractor overrides the grid extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Scanner) {
		s.extractor = e
	}
}

// New creates a Scanner.
func New(client oracle.Client, sf surface.Surface, opts ...Option) *Scanner {
	s := &Scanner{
		client:    client,
		surface:   sf,
		extractor: extract.NewGridExtractor(),
		tracker:   render.NewTracker(),
		pause:     DefaultPause,
		sleep:     sleepCtx,
		now:       time.Now,
		log:       slog.Default(),
		marks:     make(map[domain.TargetKey]domain.GridMark),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan processes up to settings.GridScanLimit of the given nodes that have
// not been scanned yet, in page order. Items are handled strictly one after
// another. Per-item failures become skip marks; only context cancellation
// ends a scan early, in which case the unprocessed nodes stay eligible.
func (s *Scanner) Scan(
	ctx context.Context,
	nodes []page.Node,
	settings domain.Settings,
) ([]domain.GridMark, error) {
	if !settings.OracleEnabled {
		s.log.Debug("grid scan skipped, oracle disabled")
		return nil, nil
	}

	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	keys := lo.Map(nodes, func(n page.Node, _ int) domain.TargetKey { return n.Key })
	claimed := s.tracker.ClaimN(keys, settings.GridScanLimit)
	if len(claimed) == 0 {
		return nil, nil
	}

	byKey := lo.KeyBy(nodes, func(n page.Node) domain.TargetKey { return n.Key })

	start := time.Now()
	metrics.ScansTotal.Inc()
	s.log.Info("grid scan started",
		"nodes", len(nodes),
		"claimed", len(claimed),
		"limit", settings.GridScanLimit,
	)

	marks := make([]domain.GridMark, 0, len(claimed))
	for i, key := range claimed {
		if err := ctx.Err(); err != nil {
			s.releaseAll(claimed[i:])
			return marks, err
		}

		mark, queried := s.scanNode(ctx, byKey[key], settings)
		if ctx.Err() != nil && queried && mark.Verdict == domain.VerdictSkip {
			// The query was cut short, not answered.
			s.releaseAll(claimed[i:])
			return marks, ctx.Err()
		}

		s.record(ctx, &mark)
		marks = append(marks, mark)

		if queried && i < len(claimed)-1 {
			if err := s.sleep(ctx, s.pause); err != nil {
				s.releaseAll(claimed[i+1:])
				return marks, err
			}
		}
	}

	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	s.log.Info("grid scan finished",
		"marked", len(marks),
		"duration", time.Since(start),
	)
	return marks, nil
}

// scanNode classifies one node. It reports whether the oracle was queried.
func (s *Scanner) scanNode(
	ctx context.Context,
	node page.Node,
	settings domain.Settings,
) (domain.GridMark, bool) {
	mark := domain.GridMark{
		Target:   node.Key,
		Position: node.Position,
		Verdict:  domain.VerdictSkip,
	}

	item, err := s.extractor.Extract(node.Selection, node.Key)
	if err != nil {
		metrics.ExtractionFailuresTotal.WithLabelValues(extractReason(err)).Inc()
		s.log.Debug("grid node extraction failed", "target", node.Key, "error", err)
		mark.Reason = ReasonExtraction
		return mark, false
	}

	econ := economics.Evaluate(item.Price, settings)
	mark.Item = &item
	mark.MinSellPrice = decimal.NewNullDecimal(econ.MinSellPrice)

	if s.skipSouvenir && item.Souvenir {
		mark.Reason = ReasonSouvenir
		return mark, false
	}

	q, err := s.client.QueryMarket(ctx, item.ItemIdentity)
	if err != nil {
		mark.Reason = failureReason(err)
		s.log.Debug("grid node oracle query failed",
			"target", node.Key,
			"item", item.String(),
			"outcome", oracle.Classify(err),
			"error", err,
		)
		return mark, true
	}

	d := economics.JudgeMarket(q, econ)
	mark.MarketPrice = decimal.NewNullDecimal(q.MarketPrice)
	mark.Profit = d.Profit
	if d.State == domain.StateGoodDeal {
		mark.Verdict = domain.VerdictGood
	} else {
		mark.Verdict = domain.VerdictBad
	}
	return mark, true
}

func (s *Scanner) record(ctx context.Context, m *domain.GridMark) {
	m.ScannedAt = s.now()

	s.tracker.Complete(m.Target)
	s.mu.Lock()
	s.marks[m.Target] = *m
	s.mu.Unlock()

	metrics.ScanItemsTotal.WithLabelValues(string(m.Verdict)).Inc()

	if err := s.surface.MarkGridItem(ctx, m); err != nil {
		s.log.Warn("publishing grid mark", "target", m.Target, "error", err)
	}
}

func (s *Scanner) releaseAll(keys []domain.TargetKey) {
	for _, k := range keys {
		s.tracker.Release(k)
	}
}

// Marks returns the marks of the current grid in page order.
func (s *Scanner) Marks() []domain.GridMark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Collect(maps.Values(s.marks))
	slices.SortFunc(out, func(a, b domain.GridMark) int {
		return cmp.Or(
			cmp.Compare(a.Position, b.Position),
			cmp.Compare(a.Target, b.Target),
		)
	})
	return out
}

// Pending returns how many of nodes a scan would still consider.
func (s *Scanner) Pending(nodes []page.Node) int {
	keys := lo.Map(nodes, func(n page.Node, _ int) domain.TargetKey { return n.Key })
	return len(s.tracker.Unmarked(keys))
}

// Reset forgets every mark so the grid is scanned afresh, for example after
// the settings changed or the grid was left.
func (s *Scanner) Reset() {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	s.tracker.Reset()
	s.mu.Lock()
	clear(s.marks)
	s.mu.Unlock()
}

func extractReason(err error) string {
	switch {
	case errors.Is(err, extract.ErrNoPrice):
		return "no_price"
	case errors.Is(err, extract.ErrNotRendered):
		return "not_rendered"
	default:
		return "other"
	}
}

func failureReason(err error) string {
	if oracle.FailureState(err) == domain.StateNoMarketData {
		return ReasonNoMarketData
	}
	return ReasonOffline
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package observer watches the marketplace page and routes each change to
// the detail or grid pipeline.
package observer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	"github.com/luticapital/arbitrage-helper/internal/page"
	"github.com/luticapital/arbitrage-helper/internal/render"
	"github.com/luticapital/arbitrage-helper/internal/scanner"
	"github.com/luticapital/arbitrage-helper/pkg/extract"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Defaults for the observer's timing.
const (
	DefaultRetryAttempts = 10
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultStartDelay    = 2 * time.Second
)

// Result describes what handling one page state did.
type Result struct {
	Mode domain.PageMode `json:"mode"`
	// Changed is false when a poll found the page identical to the last
	// handled snapshot and skipped it.
	Changed bool `json:"changed"`
	// Started is set when a new detail decision was started.
	Started  bool                 `json:"started"`
	Decision *domain.DecisionView `json:"decision,omitempty"`
	Marks    []domain.GridMark    `json:"marks,omitempty"`
}

// Observer tracks the page mode across changes and drives the renderer and
// scanner. Targets that already have a rendered or in-flight decision are
// never handed to a pipeline again.
type Observer struct {
	source   page.Source
	renderer *render.Renderer
	scanner  *scanner.Scanner
	detail   *extract.Extractor

	retryAttempts uint64
	retryInterval time.Duration
	startDelay    time.Duration
	sleep         func(context.Context, time.Duration) error
	log           *slog.Logger

	pollMu sync.Mutex

	mu        sync.Mutex
	mode      domain.PageMode
	detailKey domain.TargetKey
	hasGrid   bool
	lastHash  uint64
	hashed    bool
}

// Option configures an Observer.
type Option func(*Observer)

// WithRetry bounds how often a poll re-reads a page whose item has not
// finished rendering.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *Observer) {
		o.retryAttempts = uint64(max(attempts, 0))
		o.retryInterval = interval
	}
}

// WithStartDelay sets the wait between the grid appearing and its first scan.
func WithStartDelay(d time.Duration) Option {
	return func(o *Observer) {
		o.startDelay = d
	}
}

// WithSleepFunc replaces the start delay implementation.
func WithSleepFunc(f func(context.Context, time.Duration) error) Option {
	return func(o *Observer) {
		o.sleep = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Observer) {
		o.log = l
	}
}

// New creates an Observer reading from src.
func New(
	src page.Source,
	r *render.Renderer,
	sc *scanner.Scanner,
	opts ...Option,
) *Observer {
	o := &Observer{
		source:        src,
		renderer:      r,
		scanner:       sc,
		detail:        extract.NewDetailExtractor(),
		retryAttempts: DefaultRetryAttempts,
		retryInterval: DefaultRetryInterval,
		startDelay:    DefaultStartDelay,
		sleep:         sleepCtx,
		log:           slog.Default(),
		mode:          domain.ModeNone,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Mode returns the mode of the last handled page.
func (o *Observer) Mode() domain.PageMode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// Handle processes one page state. A detail item that has not finished
// rendering yields an error matching extract.IsTransient.
func (o *Observer) Handle(ctx context.Context, doc *goquery.Document) (Result, error) {
	mode := page.DetectMode(doc)
	o.enter(mode, page.HasGrid(doc))
	metrics.PageChangesTotal.WithLabelValues(string(mode)).Inc()

	switch mode {
	case domain.ModeDetail:
		return o.handleDetail(ctx, doc)
	case domain.ModeGrid:
		return o.handleGrid(ctx, doc)
	default:
		return Result{Mode: mode, Changed: true}, nil
	}
}

// enter records the new mode and drops state the old page owned.
func (o *Observer) enter(mode domain.PageMode, hasGrid bool) {
	o.mu.Lock()
	prev := o.mode
	hadGrid := o.hasGrid
	o.mode = mode
	o.hasGrid = hasGrid
	if mode != domain.ModeDetail {
		o.detailKey = ""
	}
	o.mu.Unlock()

	if prev != mode {
		o.log.Info("page mode changed", "from", prev, "to", mode)
	}
	if prev == domain.ModeDetail && mode != domain.ModeDetail {
		if n := o.renderer.DiscardMode(domain.ModeDetail); n > 0 {
			o.log.Debug("released detail decisions", "count", n)
		}
	}
	if hadGrid && !hasGrid {
		o.scanner.Reset()
	}
}

func (o *Observer) handleDetail(ctx context.Context, doc *goquery.Document) (Result, error) {
	res := Result{Mode: domain.ModeDetail, Changed: true}

	region, ok := page.DetailRegion(doc)
	if !ok {
		return res, nil
	}

	o.mu.Lock()
	prevKey := o.detailKey
	o.detailKey = region.Key
	o.mu.Unlock()

	// A different item in the same modal replaces the previous decision.
	if prevKey != "" && prevKey != region.Key {
		o.renderer.DiscardMode(domain.ModeDetail)
	}

	if o.renderer.Tracker().Mark(region.Key) != render.Unmarked {
		v, ok := o.renderer.Decision(region.Key)
		item, err := o.detail.Extract(region.Selection, region.Key)
		if !ok || err != nil || item.Price.Equal(v.Item.Price) {
			if ok {
				res.Decision = &v
			}
			return res, nil
		}

		// Another listing of the same item: the key matches, the price does not.
		o.log.Debug("detail listing changed price",
			"target", region.Key,
			"was", v.Item.Price.String(),
			"now", item.Price.String(),
		)
		o.renderer.Discard(region.Key)
		return o.renderDetail(ctx, res, item, region)
	}

	item, err := o.detail.Extract(region.Selection, region.Key)
	if err != nil {
		metrics.ExtractionFailuresTotal.WithLabelValues(failureLabel(err)).Inc()
		return res, fmt.Errorf("extracting detail item: %w", err)
	}
	return o.renderDetail(ctx, res, item, region)
}

func (o *Observer) renderDetail(
	ctx context.Context,
	res Result,
	item domain.ListedItem,
	region page.Region,
) (Result, error) {
	view, started := o.renderer.Render(ctx, item, render.Placement{
		Mode:   domain.ModeDetail,
		Anchor: region.Anchor,
	})
	res.Started = started
	if started || view.InstanceID != "" {
		res.Decision = &view
	}
	return res, nil
}

func (o *Observer) handleGrid(ctx context.Context, doc *goquery.Document) (Result, error) {
	nodes := page.GridNodes(doc)
	marks, err := o.scanner.Scan(ctx, nodes, o.renderer.Settings())
	return Result{Mode: domain.ModeGrid, Changed: true, Marks: marks}, err
}

// Poll fetches the page and handles it if it changed since the last handled
// snapshot. Items still rendering are re-read up to the retry budget. The
// first scan of a newly appeared grid waits for the start delay and then
// reads the page again.
func (o *Observer) Poll(ctx context.Context) (Result, error) {
	o.pollMu.Lock()
	defer o.pollMu.Unlock()

	var res Result
	op := func() error {
		snap, doc, err := o.fetch(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		if o.unchanged(snap.Hash()) {
			res = Result{Mode: o.Mode(), Changed: false}
			return nil
		}

		if o.gridAppearing(doc) && o.startDelay > 0 {
			if err := o.sleep(ctx, o.startDelay); err != nil {
				return backoff.Permanent(err)
			}
			if snap, doc, err = o.fetch(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		res, err = o.Handle(ctx, doc)
		if err != nil {
			if extract.IsTransient(err) {
				metrics.ExtractionRetriesTotal.Inc()
				return err
			}
			return backoff.Permanent(err)
		}

		o.mu.Lock()
		o.lastHash, o.hashed = snap.Hash(), true
		o.mu.Unlock()
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(o.retryInterval), o.retryAttempts),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		return res, err
	}
	return res, nil
}

func (o *Observer) fetch(ctx context.Context) (*page.Snapshot, *goquery.Document, error) {
	start := time.Now()
	snap, err := o.source.Fetch(ctx)
	metrics.PageFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PageFetchErrorsTotal.Inc()
		return nil, nil, fmt.Errorf("fetching page: %w", err)
	}

	doc, err := snap.Document()
	if err != nil {
		metrics.PageFetchErrorsTotal.Inc()
		return nil, nil, err
	}
	return snap, doc, nil
}

func (o *Observer) unchanged(hash uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hashed && o.lastHash == hash
}

// gridAppearing reports whether doc shows the grid for the first time.
func (o *Observer) gridAppearing(doc *goquery.Document) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.hasGrid && page.DetectMode(doc) == domain.ModeGrid
}

// ApplySettings re-renders live decisions with s and forgets grid marks so
// the next poll rescans the grid.
func (o *Observer) ApplySettings(ctx context.Context, s domain.Settings) {
	n := o.renderer.Invalidate(ctx, s)
	o.scanner.Reset()

	o.mu.Lock()
	o.hashed = false
	o.mu.Unlock()

	o.log.Info("settings applied",
		"version", s.Version,
		"rerendered", n,
	)
}

func failureLabel(err error) string {
	switch {
	case errors.Is(err, extract.ErrNoPrice):
		return "no_price"
	case errors.Is(err, extract.ErrNotRendered):
		return "not_rendered"
	default:
		return "other"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

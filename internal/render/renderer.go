// Package render implements the per-item decision pipeline: break-even
// economics, the asynchronous oracle resolution, and the state machine that
// turns both into a rendered decision.
package render

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	"github.com/luticapital/arbitrage-helper/internal/oracle"
	"github.com/luticapital/arbitrage-helper/internal/surface"
	"github.com/luticapital/arbitrage-helper/pkg/economics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Errors returned by Renderer operations.
var (
	ErrUnknownTarget     = errors.New("no decision rendered for target")
	ErrDeeperUnavailable = errors.New("deeper data not available for this decision")
	ErrRendererClosed    = errors.New("renderer closed")
)

// Placement describes where a decision is shown on the page.
type Placement struct {
	Mode   domain.PageMode
	Anchor string
}

// Renderer owns every live decision instance. At most one instance exists
// per target; rendering a target that already has one is a no-op.
type Renderer struct {
	oracle  oracle.Client
	surface surface.Surface
	log     *slog.Logger
	nowFunc func() time.Time
	tracker *Tracker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	settings   domain.Settings
	generation uint64
	instances  map[domain.TargetKey]*Instance
	closed     bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.log = l
	}
}

// WithNowFunc overrides the clock for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(r *Renderer) {
		r.nowFunc = f
	}
}

// NewRenderer creates a Renderer that resolves decisions with client and
// publishes them to s. Call Close to stop in-flight resolutions.
func NewRenderer(
	client oracle.Client,
	s surface.Surface,
	settings domain.Settings,
	opts ...Option,
) *Renderer {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Renderer{
		oracle:    client,
		surface:   s,
		log:       slog.Default(),
		nowFunc:   time.Now,
		ctx:       ctx,
		cancel:    cancel,
		tracker:   NewTracker(),
		settings:  settings,
		instances: make(map[domain.TargetKey]*Instance),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tracker returns the processing markers used for de-duplication.
func (r *Renderer) Tracker() *Tracker {
	return r.tracker
}

// Settings returns the snapshot new instances are rendered with.
func (r *Renderer) Settings() domain.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// Render starts a decision for item. With the oracle disabled the decision
// is QuickCalcOnly and final; otherwise a Loading view carrying the
// break-even price is published immediately and the oracle is queried in
// the background. It returns false without doing anything if the target
// already has a rendered or in-flight decision.
func (r *Renderer) Render(
	ctx context.Context,
	item domain.ListedItem,
	p Placement,
) (domain.DecisionView, bool) {
	// Markers change only under r.mu, so a marker exists exactly while an
	// instance does.
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return domain.DecisionView{}, false
	}
	if !r.tracker.Claim(item.Target) {
		var v domain.DecisionView
		if inst, ok := r.instances[item.Target]; ok {
			v = inst.view()
		}
		r.mu.Unlock()
		return v, false
	}
	inst := r.newInstanceLocked(item, p)
	view, resolve := r.startLocked(inst)
	if !resolve {
		r.tracker.Complete(inst.Target)
	}
	r.mu.Unlock()

	r.publish(ctx, &view)
	if resolve {
		r.spawn(inst, inst.Generation, false)
	}
	return view, true
}

// RequestDeeper runs the full-mode query for a market-mode verdict. The
// decision returns to Loading and later resolves with the full-mode rule.
func (r *Renderer) RequestDeeper(
	ctx context.Context,
	key domain.TargetKey,
) (domain.DecisionView, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return domain.DecisionView{}, ErrRendererClosed
	}
	inst, ok := r.instances[key]
	if !ok {
		r.mu.Unlock()
		return domain.DecisionView{}, fmt.Errorf("%w: %s", ErrUnknownTarget, key)
	}
	if !inst.CanDeepen() {
		state := inst.State()
		r.mu.Unlock()
		return domain.DecisionView{}, fmt.Errorf("%w: state %s", ErrDeeperUnavailable, state)
	}
	if err := inst.beginDeeper(r.nowFunc()); err != nil {
		r.mu.Unlock()
		return domain.DecisionView{}, err
	}
	view := inst.view()
	gen := inst.Generation
	r.mu.Unlock()

	r.publish(ctx, &view)
	r.spawn(inst, gen, true)
	return view, nil
}

// Invalidate installs a new settings snapshot. Every live instance is
// discarded and its item rendered again as a fresh instance under the new
// settings; results still in flight for the old instances are ignored.
// It returns the number of re-rendered items.
func (r *Renderer) Invalidate(ctx context.Context, s domain.Settings) int {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}
	r.settings = s
	r.generation++

	old := slices.Collect(maps.Values(r.instances))
	slices.SortFunc(old, func(a, b *Instance) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	clear(r.instances)
	metrics.ActiveRenderings.Set(0)

	type restart struct {
		inst    *Instance
		view    domain.DecisionView
		resolve bool
	}
	restarts := make([]restart, 0, len(old))
	for _, prev := range old {
		inst := r.newInstanceLocked(prev.Item, Placement{Mode: prev.Mode, Anchor: prev.Anchor})
		view, resolve := r.startLocked(inst)
		if !resolve {
			r.tracker.Complete(inst.Target)
		}
		restarts = append(restarts, restart{inst: inst, view: view, resolve: resolve})
	}
	r.mu.Unlock()

	for i := range restarts {
		rs := &restarts[i]
		r.publish(ctx, &rs.view)
		if rs.resolve {
			r.spawn(rs.inst, rs.inst.Generation, false)
		}
	}

	r.log.Info("decisions invalidated",
		"settings_version", s.Version,
		"rerendered", len(restarts),
	)
	return len(restarts)
}

// Discard drops the decision for key and clears its marker so that the
// target is rendered again the next time it appears. A result still in
// flight for it is ignored.
func (r *Renderer) Discard(key domain.TargetKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.instances[key]
	delete(r.instances, key)
	r.tracker.Release(key)
	metrics.ActiveRenderings.Set(float64(len(r.instances)))
	return ok
}

// DiscardMode drops every decision rendered for the given page mode.
func (r *Renderer) DiscardMode(mode domain.PageMode) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []domain.TargetKey
	for k, inst := range r.instances {
		if inst.Mode == mode {
			keys = append(keys, k)
			delete(r.instances, k)
			r.tracker.Release(k)
		}
	}
	metrics.ActiveRenderings.Set(float64(len(r.instances)))
	return len(keys)
}

// Decision returns the current view for key.
func (r *Renderer) Decision(key domain.TargetKey) (domain.DecisionView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[key]
	if !ok {
		return domain.DecisionView{}, false
	}
	return inst.view(), true
}

// Decisions returns every live view, oldest first.
func (r *Renderer) Decisions() []domain.DecisionView {
	r.mu.Lock()
	defer r.mu.Unlock()

	insts := slices.Collect(maps.Values(r.instances))
	slices.SortFunc(insts, func(a, b *Instance) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})

	views := make([]domain.DecisionView, 0, len(insts))
	for _, inst := range insts {
		views = append(views, inst.view())
	}
	return views
}

// Wait blocks until every in-flight resolution has finished.
func (r *Renderer) Wait() {
	r.wg.Wait()
}

// Close cancels in-flight oracle queries and waits for them to return.
// Their results are dropped.
func (r *Renderer) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}

func (r *Renderer) newInstanceLocked(item domain.ListedItem, p Placement) *Instance {
	now := r.nowFunc()
	inst := &Instance{
		ID:         uuid.NewString(),
		Target:     item.Target,
		Mode:       p.Mode,
		Anchor:     p.Anchor,
		Item:       item,
		Settings:   r.settings,
		Generation: r.generation,
		StartedAt:  now,
	}
	r.instances[item.Target] = inst
	metrics.ActiveRenderings.Set(float64(len(r.instances)))
	return inst
}

// startLocked moves a new instance to its entry state and reports whether
// an oracle resolution must follow.
func (r *Renderer) startLocked(inst *Instance) (domain.DecisionView, bool) {
	econ := economics.Evaluate(inst.Item.Price, inst.Settings)

	entry := domain.StateLoading
	if !inst.Settings.OracleEnabled {
		entry = domain.StateQuickCalcOnly
	}

	// New instances always accept an entry state.
	_ = inst.transition(domain.Decision{State: entry, Economics: econ}, inst.StartedAt)

	if entry == domain.StateQuickCalcOnly {
		metrics.DecisionsTotal.WithLabelValues(string(entry)).Inc()
	}
	return inst.view(), entry == domain.StateLoading
}

func (r *Renderer) spawn(inst *Instance, gen uint64, deeper bool) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.resolve(inst, gen, deeper)
	}()
}

func (r *Renderer) resolve(inst *Instance, gen uint64, deeper bool) {
	start := r.nowFunc()
	d := r.query(inst, deeper)

	if r.ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	if r.instances[inst.Target] != inst || inst.Generation != gen || r.generation != gen {
		r.mu.Unlock()
		metrics.StaleResultsDropped.Inc()
		r.log.Debug("dropping superseded oracle result",
			"target", inst.Target,
			"instance", inst.ID,
		)
		return
	}
	if err := inst.transition(d, r.nowFunc()); err != nil {
		r.mu.Unlock()
		r.log.Error("decision transition rejected", "target", inst.Target, "error", err)
		return
	}
	view := inst.view()
	r.tracker.Complete(inst.Target)
	r.mu.Unlock()

	metrics.DecisionsTotal.WithLabelValues(string(d.State)).Inc()
	metrics.DecisionResolveDuration.Observe(r.nowFunc().Sub(start).Seconds())
	r.publish(r.ctx, &view)
}

// query performs the oracle call for inst and maps the result to a
// decision. Deeper requests always use the full route.
func (r *Renderer) query(inst *Instance, deeper bool) domain.Decision {
	r.mu.Lock()
	econ := inst.decision.Economics
	prevQuote := inst.decision.Quote
	r.mu.Unlock()

	id := inst.Item.ItemIdentity
	d, err := judge(r.ctx, r.oracle, id, econ, deeper || inst.Settings.HistoricEnabled)
	if err != nil {
		r.log.Warn("oracle query failed",
			"item", id.String(),
			"outcome", oracle.Classify(err),
			"error", err,
		)
		if deeper {
			d.Quote = prevQuote
		}
	}
	d.FollowUp = deeper
	return d
}

func (r *Renderer) publish(ctx context.Context, v *domain.DecisionView) {
	if err := r.surface.ShowDecision(ctx, v); err != nil {
		r.log.Warn("surface rejected decision",
			"target", v.Target,
			"state", v.Decision.State,
			"error", err,
		)
	}
}

package render

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// ErrInvalidTransition is returned when a decision state change is not
// allowed by the per-instance state machine.
var ErrInvalidTransition = errors.New("invalid decision transition")

// Instance is one rendering of one item. Its state only moves forward:
// Loading resolves to a terminal state once, and the only way back to
// Loading is an explicit deeper-data request. A settings change replaces
// the instance instead of mutating it.
type Instance struct {
	ID         string
	Target     domain.TargetKey
	Mode       domain.PageMode
	Anchor     string
	Item       domain.ListedItem
	Settings   domain.Settings
	Generation uint64
	StartedAt  time.Time

	decision domain.Decision
	previous domain.DecisionState
	deeper   bool
	updated  time.Time
}

// State returns the current decision state.
func (i *Instance) State() domain.DecisionState {
	return i.decision.State
}

// CanDeepen reports whether a full-mode follow-up query may be requested:
// the instance holds a market-mode deal verdict that has not been followed
// up yet.
func (i *Instance) CanDeepen() bool {
	if i.decision.FollowUp || i.decision.Quote == nil {
		return false
	}
	if i.decision.Quote.Mode != domain.QuoteModeMarket {
		return false
	}
	s := i.decision.State
	return s == domain.StateGoodDeal || s == domain.StateBadDeal
}

func (i *Instance) transition(next domain.Decision, now time.Time) error {
	from, to := i.decision.State, next.State
	if !allowed(from, to, i.deeper) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, stateName(from), stateName(to))
	}
	i.previous = from
	i.decision = next
	i.updated = now
	return nil
}

// beginDeeper moves a market-mode verdict back to Loading, keeping its
// economics and market quote visible.
func (i *Instance) beginDeeper(now time.Time) error {
	if !i.CanDeepen() {
		return fmt.Errorf("%w: deeper data from %s", ErrInvalidTransition, stateName(i.decision.State))
	}
	i.deeper = true
	loading := i.decision
	loading.State = domain.StateLoading
	loading.Profit = nil
	return i.transition(loading, now)
}

func allowed(from, to domain.DecisionState, deeper bool) bool {
	switch from {
	case "":
		return to == domain.StateLoading || to == domain.StateQuickCalcOnly
	case domain.StateLoading:
		return to.Terminal()
	case domain.StateGoodDeal, domain.StateBadDeal:
		return deeper && to == domain.StateLoading
	default:
		return false
	}
}

func stateName(s domain.DecisionState) string {
	if s == "" {
		return "new"
	}
	return string(s)
}

func (i *Instance) view() domain.DecisionView {
	d := i.decision
	if d.Quote != nil {
		q := *d.Quote
		d.Quote = &q
	}
	if d.Profit != nil {
		p := *d.Profit
		d.Profit = &p
	}
	return domain.DecisionView{
		InstanceID:      i.ID,
		Target:          i.Target,
		Mode:            i.Mode,
		Anchor:          i.Anchor,
		Item:            i.Item,
		Decision:        d,
		Previous:        i.previous,
		Deeper:          i.CanDeepen(),
		SettingsVersion: i.Settings.Version,
		UpdatedAt:       i.updated,
	}
}

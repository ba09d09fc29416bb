package render

import (
	"context"

	"github.com/luticapital/arbitrage-helper/internal/oracle"
	"github.com/luticapital/arbitrage-helper/pkg/economics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Evaluate runs the decision pipeline for one item and waits for the
// verdict. It neither tracks nor publishes anything. full forces the
// full-mode query regardless of the historic setting.
func Evaluate(
	ctx context.Context,
	client oracle.Client,
	item domain.ListedItem,
	s domain.Settings,
	full bool,
) domain.Decision {
	econ := economics.Evaluate(item.Price, s)
	if !s.OracleEnabled {
		return domain.Decision{State: domain.StateQuickCalcOnly, Economics: econ}
	}

	d, _ := judge(ctx, client, item.ItemIdentity, econ, full || s.HistoricEnabled)
	d.FollowUp = full && !s.HistoricEnabled
	return d
}

// judge queries the oracle on the requested route and classifies the
// result. On failure the decision carries the failure state and the error
// is returned for logging.
func judge(
	ctx context.Context,
	client oracle.Client,
	id domain.ItemIdentity,
	econ domain.EconomicsResult,
	full bool,
) (domain.Decision, error) {
	if full {
		q, err := client.QueryFull(ctx, id)
		if err != nil {
			return domain.Decision{State: oracle.FailureState(err), Economics: econ}, err
		}
		return economics.JudgeFull(q, econ), nil
	}

	q, err := client.QueryMarket(ctx, id)
	if err != nil {
		return domain.Decision{State: oracle.FailureState(err), Economics: econ}, err
	}
	return economics.JudgeMarket(q, econ), nil
}

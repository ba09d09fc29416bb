// Package store defines the decision history datastore. Callers depend on the
// Store interface, never on concrete implementations.
package store

import (
	"context"
	"time"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// DecisionQuery defines optional filters for decision history queries.
type DecisionQuery struct {
	Name     *string
	Wear     *string
	States   []string
	FollowUp *bool
	Since    *time.Time
	Limit    int // default 50
	Offset   int
	OrderBy  string // "decided_at", "price", "name"
}

// Store defines all data access operations for the decision history.
type Store interface {
	RecordDecision(ctx context.Context, r *domain.DecisionRecord) error
	ListDecisions(ctx context.Context, q *DecisionQuery) ([]domain.DecisionRecord, int, error)
	CountDecisionsByState(ctx context.Context, since time.Time) (map[domain.DecisionState]int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

const defaultPoolSize = 5

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if !strings.Contains(connString, "pool_max_conns") {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// RecordDecision stores a terminal decision. Recording the same instance
// twice overwrites the earlier row; a follow-up decision gets its own row.
func (s *PostgresStore) RecordDecision(ctx context.Context, r *domain.DecisionRecord) error {
	decidedAt := r.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = time.Now()
	}

	args := pgx.NamedArgs{
		"instance_id":      r.InstanceID,
		"target_key":       r.Target,
		"name":             r.Name,
		"wear":             string(r.Wear),
		"price":            r.Price,
		"min_sell_price":   r.MinSellPrice,
		"state":            string(r.State),
		"quote_mode":       string(r.Mode),
		"market_price":     r.MarketPrice,
		"historic_price":   r.HistoricPrice,
		"fair_value":       r.FairValue,
		"fee_percent":      r.FeePercent,
		"margin_percent":   r.MarginPercent,
		"settings_version": r.SettingsVersion,
		"follow_up":        r.FollowUp,
		"decided_at":       decidedAt,
	}

	if err := s.pool.QueryRow(ctx, queryInsertDecision, args).Scan(&r.ID); err != nil {
		return fmt.Errorf("recording decision: %w", err)
	}
	r.DecidedAt = decidedAt
	return nil
}

// ListDecisions returns decisions matching the query plus the total count.
func (s *PostgresStore) ListDecisions(
	ctx context.Context,
	q *DecisionQuery,
) ([]domain.DecisionRecord, int, error) {
	if q == nil {
		q = &DecisionQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting decisions: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var records []domain.DecisionRecord
	for rows.Next() {
		var r domain.DecisionRecord
		if err := rows.Scan(
			&r.ID, &r.InstanceID, &r.Target, &r.Name, &r.Wear,
			&r.Price, &r.MinSellPrice, &r.State, &r.Mode,
			&r.MarketPrice, &r.HistoricPrice, &r.FairValue,
			&r.FeePercent, &r.MarginPercent, &r.SettingsVersion, &r.FollowUp, &r.DecidedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning decision: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating decisions: %w", err)
	}

	return records, total, nil
}

// CountDecisionsByState returns per-state counts of decisions made since the
// given time.
func (s *PostgresStore) CountDecisionsByState(
	ctx context.Context,
	since time.Time,
) (map[domain.DecisionState]int, error) {
	rows, err := s.pool.Query(ctx, queryCountDecisionsByState, since)
	if err != nil {
		return nil, fmt.Errorf("counting decisions by state: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.DecisionState]int)
	for rows.Next() {
		var (
			state string
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scanning state count: %w", err)
		}
		counts[domain.DecisionState(state)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state counts: %w", err)
	}
	return counts, nil
}

package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByDecidedAt = "decided_at"
	orderByPrice     = "price"
	orderByName      = "name"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByDecidedAt: "decided_at DESC",
	orderByPrice:     "price ASC",
	orderByName:      "name ASC, wear ASC",
}

const defaultOrderBy = "decided_at DESC"

const baseDecisionsSelect = `SELECT id, instance_id, target_key, name, wear,
	price, min_sell_price, state, COALESCE(quote_mode, ''),
	market_price, historic_price, fair_value,
	fee_percent, margin_percent, settings_version, follow_up, decided_at
FROM decisions`

const countDecisionsSelect = "SELECT COUNT(*) FROM decisions"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a decision
// query. It returns the data query, the count query, and the positional
// parameters shared by both.
func (q *DecisionQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Name != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", paramIdx))
		args = append(args, "%"+*q.Name+"%")
		paramIdx++
	}

	if q.Wear != nil {
		conditions = append(conditions, fmt.Sprintf("wear = $%d", paramIdx))
		args = append(args, *q.Wear)
		paramIdx++
	}

	if q.FollowUp != nil {
		conditions = append(conditions, fmt.Sprintf("follow_up = $%d", paramIdx))
		args = append(args, *q.FollowUp)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("decided_at >= $%d", paramIdx))
		args = append(args, *q.Since)
		paramIdx++
	}

	if len(q.States) > 0 {
		placeholders := make([]string, len(q.States))
		for i, s := range q.States {
			placeholders[i] = fmt.Sprintf("$%d", paramIdx)
			args = append(args, s)
			paramIdx++
		}
		conditions = append(conditions, fmt.Sprintf(
			"state IN (%s)", strings.Join(placeholders, ", "),
		))
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if col, ok := validOrderBy[q.OrderBy]; ok {
		orderClause = col
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseDecisionsSelect, whereClause, orderClause, limit, offset,
	)
	countSQL = countDecisionsSelect + whereClause

	return dataSQL, countSQL, args
}

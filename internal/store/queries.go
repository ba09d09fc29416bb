package store

// SQL query constants. PostgresStore methods reference these constants.

const (
	queryInsertDecision = `
		INSERT INTO decisions (
			instance_id, target_key, name, wear, price, min_sell_price,
			state, quote_mode, market_price, historic_price, fair_value,
			fee_percent, margin_percent, settings_version, follow_up, decided_at
		) VALUES (
			@instance_id, @target_key, @name, @wear, @price, @min_sell_price,
			@state, NULLIF(@quote_mode, ''), @market_price, @historic_price, @fair_value,
			@fee_percent, @margin_percent, @settings_version, @follow_up, @decided_at
		)
		ON CONFLICT (instance_id, follow_up) DO UPDATE SET
			state = EXCLUDED.state,
			quote_mode = EXCLUDED.quote_mode,
			market_price = EXCLUDED.market_price,
			historic_price = EXCLUDED.historic_price,
			fair_value = EXCLUDED.fair_value,
			decided_at = EXCLUDED.decided_at
		RETURNING id`

	queryCountDecisionsByState = `
		SELECT state, COUNT(*)
		FROM decisions
		WHERE decided_at >= $1
		GROUP BY state`
)

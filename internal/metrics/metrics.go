// Package metrics defines Prometheus metrics for arbitrage-helper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "arb"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})
)

// Oracle metrics.
var (
	OracleRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_requests_total",
		Help:      "Total number of oracle queries by route and outcome.",
	}, []string{"route", "outcome"})

	OracleRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "oracle_request_duration_seconds",
		Help:      "Duration of oracle round trips in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	OracleDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "oracle_daily_usage",
		Help:      "Oracle queries made within the rolling 24-hour window.",
	})

	OracleDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_daily_limit_hits_total",
		Help:      "Total number of times the daily oracle budget was exhausted.",
	})

	OracleCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_cache_hits_total",
		Help:      "Total number of oracle queries served from cache.",
	}, []string{"route"})

	OracleCacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_cache_misses_total",
		Help:      "Total number of oracle queries that missed the cache.",
	}, []string{"route"})
)

// Decision metrics.
var (
	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of terminal decisions rendered, by state.",
	}, []string{"state"})

	DecisionResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "decision_resolve_duration_seconds",
		Help:      "Time from Loading to a terminal decision state.",
		Buckets:   prometheus.DefBuckets,
	})

	StaleResultsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_results_dropped_total",
		Help:      "Oracle results discarded because the rendering was superseded.",
	})

	ActiveRenderings = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_renderings",
		Help:      "Number of live decision renderings.",
	})
)

// Page and extraction metrics.
var (
	PageChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_changes_total",
		Help:      "Total number of page changes observed, by page mode.",
	}, []string{"mode"})

	PageFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_fetch_errors_total",
		Help:      "Total number of failed page snapshot fetches.",
	})

	PageFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "page_fetch_duration_seconds",
		Help:      "Duration of page snapshot fetches in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ExtractionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_failures_total",
		Help:      "Total number of item extraction failures, by reason.",
	}, []string{"reason"})

	ExtractionRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_retries_total",
		Help:      "Total number of extraction retries while content was still rendering.",
	})

	ObserverNextPollTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "observer_next_poll_timestamp",
		Help:      "Unix timestamp of the next scheduled page poll.",
	})
)

// Grid scan metrics.
var (
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grid_scans_total",
		Help:      "Total number of grid scans run.",
	})

	ScanItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grid_scan_items_total",
		Help:      "Total number of grid nodes marked, by verdict.",
	}, []string{"verdict"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "grid_scan_duration_seconds",
		Help:      "Duration of grid scans in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Alert and stream metrics.
var (
	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of good-deal alerts fired.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification webhook calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_clients",
		Help:      "Number of connected decision stream clients.",
	})

	SettingsVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "settings_version",
		Help:      "Version of the active settings snapshot.",
	})

	SettingsReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settings_reloads_total",
		Help:      "Total number of settings changes, by source and result.",
	}, []string{"source", "result"})
)

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, OracleRequestsTotal)
	assert.NotNil(t, OracleRequestDuration)
	assert.NotNil(t, OracleDailyUsage)
	assert.NotNil(t, OracleDailyLimitHits)
	assert.NotNil(t, OracleCacheHitsTotal)
	assert.NotNil(t, OracleCacheMissesTotal)
	assert.NotNil(t, DecisionsTotal)
	assert.NotNil(t, DecisionResolveDuration)
	assert.NotNil(t, StaleResultsDropped)
	assert.NotNil(t, ActiveRenderings)
	assert.NotNil(t, PageChangesTotal)
	assert.NotNil(t, PageFetchErrorsTotal)
	assert.NotNil(t, PageFetchDuration)
	assert.NotNil(t, ExtractionFailuresTotal)
	assert.NotNil(t, ExtractionRetriesTotal)
	assert.NotNil(t, ObserverNextPollTimestamp)
	assert.NotNil(t, ScansTotal)
	assert.NotNil(t, ScanItemsTotal)
	assert.NotNil(t, ScanDuration)
	assert.NotNil(t, AlertsFiredTotal)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, NotificationDuration)
	assert.NotNil(t, StreamClients)
	assert.NotNil(t, SettingsVersion)
	assert.NotNil(t, SettingsReloadsTotal)
}

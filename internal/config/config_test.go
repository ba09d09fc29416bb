package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
page:
  url: https://market.example.com/offers
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://market.example.com/offers", cfg.Page.URL)
				assert.Equal(t, SourceHTTP, cfg.Page.Source)
				assert.False(t, cfg.Database.Enabled())
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
page:
  url: https://market.example.com/offers
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 5, cfg.Database.PoolSize)
				assert.Equal(t, "http://127.0.0.1:5000", cfg.Oracle.BaseURL)
				assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
				assert.InDelta(t, 10.0, cfg.Oracle.RateLimit.PerSecond, 0.0001)
				assert.Equal(t, 1, cfg.Oracle.RateLimit.Burst)
				assert.Zero(t, cfg.Oracle.RateLimit.DailyLimit)
				assert.Zero(t, cfg.Oracle.CacheTTL)
				assert.Equal(t, 2*time.Second, cfg.Page.PollInterval)
				assert.True(t, cfg.Page.IsHeadless())
				assert.Equal(t, 10, cfg.Observer.RetryAttempts)
				assert.Equal(t, 500*time.Millisecond, cfg.Observer.RetryInterval)
				assert.Equal(t, 100*time.Millisecond, cfg.Scanner.Pause)
				assert.Equal(t, 2*time.Second, cfg.Scanner.StartDelay)
				assert.True(t, cfg.Scanner.SkipsSouvenir())
				assert.InDelta(t, 8.0, cfg.Settings.Defaults.FeePercent, 0.0001)
				assert.InDelta(t, 10.0, cfg.Settings.Defaults.MarginPercent, 0.0001)
				assert.True(t, cfg.Settings.Defaults.OracleEnabled)
				assert.Equal(t, 5, cfg.Settings.Defaults.GridScanLimit)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: localhost
  name: arb
  user: arb
  password: "${TEST_DB_PASSWORD}"
page:
  url: https://market.example.com/offers
`,
			envVars: map[string]string{
				"TEST_DB_PASSWORD": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Database.Password)
				assert.True(t, cfg.Database.Enabled())
			},
		},
		{
			name: "database name required with host",
			yaml: `
database:
  host: localhost
  user: arb
page:
  url: https://market.example.com/offers
`,
			wantErr: "database.name is required when database.host is set",
		},
		{
			name: "database user required with host",
			yaml: `
database:
  host: localhost
  name: arb
page:
  url: https://market.example.com/offers
`,
			wantErr: "database.user is required when database.host is set",
		},
		{
			name: "invalid page source",
			yaml: `
page:
  source: carrier_pigeon
`,
			wantErr: `page.source must be one of: http, browser, file (got "carrier_pigeon")`,
		},
		{
			name: "browser source requires url",
			yaml: `
page:
  source: browser
`,
			wantErr: "page.url is required when source is browser",
		},
		{
			name: "file source requires file",
			yaml: `
page:
  source: file
`,
			wantErr: "page.file is required when source is file",
		},
		{
			name: "relative oracle url",
			yaml: `
oracle:
  base_url: localhost:5000/x
page:
  url: https://market.example.com/offers
`,
			wantErr: "oracle.base_url must be an absolute URL",
		},
		{
			name: "settings defaults out of range",
			yaml: `
page:
  url: https://market.example.com/offers
settings:
  defaults:
    fee_percent: 100
    grid_scan_limit: 0
`,
			wantErr: "settings.defaults.fee_percent must be in [0, 100)",
		},
		{
			name: "discord enabled without webhook",
			yaml: `
page:
  url: https://market.example.com/offers
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required when discord is enabled",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
database:
  host: db.example.com
  port: 5433
  name: arb_prod
  user: admin
  password: pass
  sslmode: require
  pool_size: 20
oracle:
  base_url: http://oracle:5000
  timeout: 5s
  cache_ttl: 10m
  rate_limit:
    per_second: 2
    burst: 4
    daily_limit: 1000
page:
  source: browser
  url: https://market.example.com/offers
  poll_interval: 1s
  user_agent: arb-test
  headless: false
  control_url: ws://127.0.0.1:9222/devtools/browser/abc
observer:
  retry_attempts: 3
  retry_interval: 250ms
scanner:
  pause: 250ms
  start_delay: 1s
  skip_souvenir: false
settings:
  file: /var/lib/arb/settings.yaml
  defaults:
    fee_percent: 5
    margin_percent: 15
    oracle_enabled: true
    historic_enabled: true
    grid_scan_limit: 20
notifications:
  discord:
    enabled: true
    webhook_url: https://discord.com/api/webhooks/123
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "db.example.com", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, 20, cfg.Database.PoolSize)
				assert.Equal(t, "http://oracle:5000", cfg.Oracle.BaseURL)
				assert.Equal(t, 5*time.Second, cfg.Oracle.Timeout)
				assert.Equal(t, 10*time.Minute, cfg.Oracle.CacheTTL)
				assert.Equal(t, int64(1000), cfg.Oracle.RateLimit.DailyLimit)
				assert.Equal(t, SourceBrowser, cfg.Page.Source)
				assert.Equal(t, time.Second, cfg.Page.PollInterval)
				assert.Equal(t, "arb-test", cfg.Page.UserAgent)
				assert.False(t, cfg.Page.IsHeadless())
				assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", cfg.Page.ControlURL)
				assert.Equal(t, 3, cfg.Observer.RetryAttempts)
				assert.Equal(t, 250*time.Millisecond, cfg.Scanner.Pause)
				assert.False(t, cfg.Scanner.SkipsSouvenir())
				assert.Equal(t, "/var/lib/arb/settings.yaml", cfg.Settings.File)
				assert.InDelta(t, 15.0, cfg.Settings.Defaults.MarginPercent, 0.0001)
				assert.True(t, cfg.Settings.Defaults.HistoricEnabled)
				assert.Equal(t, 20, cfg.Settings.Defaults.GridScanLimit)
				assert.True(t, cfg.Notifications.Discord.Enabled)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "partial settings defaults keep the rest",
			yaml: `
page:
  url: https://market.example.com/offers
settings:
  defaults:
    oracle_enabled: false
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.False(t, cfg.Settings.Defaults.OracleEnabled)
				assert.InDelta(t, 8.0, cfg.Settings.Defaults.FeePercent, 0.0001)
				assert.Equal(t, 5, cfg.Settings.Defaults.GridScanLimit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, SourceHTTP, cfg.Page.Source)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Oracle.BaseURL)
	assert.Equal(t, 5, cfg.Settings.Defaults.GridScanLimit)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "basic DSN",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				Name:     "arb",
				User:     "arb",
				Password: "testpass",
				SSLMode:  "disable",
				PoolSize: 5,
			},
			want: "host=localhost port=5432 dbname=arb user=arb password=testpass sslmode=disable pool_max_conns=5",
		},
		{
			name: "production DSN",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				Name:     "arb",
				User:     "admin",
				Password: "s3cret",
				SSLMode:  "require",
				PoolSize: 20,
			},
			want: "host=db.example.com port=5433 dbname=arb user=admin password=s3cret sslmode=require pool_max_conns=20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Oracle        OracleConfig        `yaml:"oracle"`
	Page          PageConfig          `yaml:"page"`
	Observer      ObserverConfig      `yaml:"observer"`
	Scanner       ScannerConfig       `yaml:"scanner"`
	Settings      SettingsConfig      `yaml:"settings"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings. Decision history is
// disabled when Host is empty.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a database is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// OracleConfig defines the pricing oracle endpoint.
type OracleConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	// CacheTTL keeps successful quotes for this long. Zero disables caching.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// RateLimitConfig defines oracle rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"` // 0 = unlimited
}

// Page sources.
const (
	SourceHTTP    = "http"
	SourceBrowser = "browser"
	SourceFile    = "file"
)

// PageConfig defines where the observed page comes from.
type PageConfig struct {
	URL          string        `yaml:"url"`
	Source       string        `yaml:"source"` // http, browser, file
	File         string        `yaml:"file"`
	PollInterval time.Duration `yaml:"poll_interval"`
	UserAgent    string        `yaml:"user_agent"`
	Headless     *bool         `yaml:"headless"`
	// ControlURL attaches to a running browser instead of launching one.
	ControlURL string `yaml:"control_url"`
}

// IsHeadless reports whether a launched browser runs headless (default true).
func (p *PageConfig) IsHeadless() bool {
	return p.Headless == nil || *p.Headless
}

// ObserverConfig defines the bounded retry for items still rendering.
type ObserverConfig struct {
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// ScannerConfig defines grid scan pacing.
type ScannerConfig struct {
	Pause        time.Duration `yaml:"pause"`
	StartDelay   time.Duration `yaml:"start_delay"`
	SkipSouvenir *bool         `yaml:"skip_souvenir"`
}

// SkipsSouvenir reports whether souvenir items are skipped (default true).
func (s *ScannerConfig) SkipsSouvenir() bool {
	return s.SkipSouvenir == nil || *s.SkipSouvenir
}

// SettingsConfig defines the user settings file and the values used when the
// file does not set them.
type SettingsConfig struct {
	File     string          `yaml:"file"`
	Defaults domain.Settings `yaml:"defaults"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a config with every default applied, for running without
// a config file.
func Default() *Config {
	cfg := &Config{
		Settings: SettingsConfig{Defaults: domain.DefaultSettings()},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyOracleDefaults(&cfg.Oracle)
	applyPageDefaults(&cfg.Page)
	applyObserverDefaults(&cfg.Observer)
	applyScannerDefaults(&cfg.Scanner)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 5
	}
}

func applyOracleDefaults(o *OracleConfig) {
	if o.BaseURL == "" {
		o.BaseURL = "http://127.0.0.1:5000"
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.RateLimit.PerSecond == 0 {
		o.RateLimit.PerSecond = 10
	}
	if o.RateLimit.Burst == 0 {
		o.RateLimit.Burst = 1
	}
}

func applyPageDefaults(p *PageConfig) {
	if p.Source == "" {
		p.Source = SourceHTTP
	}
	if p.PollInterval == 0 {
		p.PollInterval = 2 * time.Second
	}
}

func applyObserverDefaults(o *ObserverConfig) {
	if o.RetryAttempts == 0 {
		o.RetryAttempts = 10
	}
	if o.RetryInterval == 0 {
		o.RetryInterval = 500 * time.Millisecond
	}
}

func applyScannerDefaults(s *ScannerConfig) {
	if s.Pause == 0 {
		s.Pause = 100 * time.Millisecond
	}
	if s.StartDelay == 0 {
		s.StartDelay = 2 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when database.host is set"))
		}
	}

	if u, err := url.Parse(cfg.Oracle.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("oracle.base_url must be an absolute URL (got %q)", cfg.Oracle.BaseURL))
	}
	if cfg.Oracle.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("oracle.rate_limit.per_second must not be negative"))
	}
	if cfg.Oracle.RateLimit.DailyLimit < 0 {
		errs = append(errs, fmt.Errorf("oracle.rate_limit.daily_limit must not be negative"))
	}

	switch cfg.Page.Source {
	case SourceHTTP, SourceBrowser:
		if cfg.Page.URL == "" {
			errs = append(errs, fmt.Errorf("page.url is required when source is %s", cfg.Page.Source))
		}
	case SourceFile:
		if cfg.Page.File == "" {
			errs = append(errs, fmt.Errorf("page.file is required when source is file"))
		}
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"page.source must be one of: http, browser, file (got %q)",
				cfg.Page.Source,
			),
		)
	}

	if cfg.Observer.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("observer.retry_attempts must not be negative"))
	}

	if err := validateSettings(&cfg.Settings.Defaults); err != nil {
		errs = append(errs, err)
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	return errors.Join(errs...)
}

// validateSettings checks the ranges the settings store enforces, so a bad
// default fails at startup with a config error.
func validateSettings(s *domain.Settings) error {
	var errs []error
	if s.FeePercent < 0 || s.FeePercent >= 100 {
		errs = append(errs, fmt.Errorf("settings.defaults.fee_percent must be in [0, 100)"))
	}
	if s.MarginPercent < 0 || s.MarginPercent > 100 {
		errs = append(errs, fmt.Errorf("settings.defaults.margin_percent must be in [0, 100]"))
	}
	if s.GridScanLimit < 1 || s.GridScanLimit > 500 {
		errs = append(errs, fmt.Errorf("settings.defaults.grid_scan_limit must be in [1, 500]"))
	}
	return errors.Join(errs...)
}

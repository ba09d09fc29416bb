package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/luticapital/arbitrage-helper/internal/config"
	"github.com/luticapital/arbitrage-helper/internal/notify"
	"github.com/luticapital/arbitrage-helper/internal/oracle"
	"github.com/luticapital/arbitrage-helper/internal/page"
	"github.com/luticapital/arbitrage-helper/internal/settings"
	"github.com/luticapital/arbitrage-helper/internal/store"
	"github.com/luticapital/arbitrage-helper/pkg/logger"
)

// newOracle builds the rate-limited, cached oracle client.
func newOracle(cfg *config.OracleConfig) (oracle.Client, *oracle.RateLimiter) {
	rl := oracle.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, cfg.RateLimit.DailyLimit)
	client := oracle.NewHTTPClient(
		oracle.WithBaseURL(cfg.BaseURL),
		oracle.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		oracle.WithRateLimiter(rl),
	)
	return oracle.NewCachedClient(client, cfg.CacheTTL), rl
}

// newSource builds the configured page source. The returned func releases
// it.
func newSource(cfg *config.PageConfig, log *slog.Logger) (page.Source, func()) {
	switch cfg.Source {
	case config.SourceFile:
		return page.NewFileSource(cfg.File), func() {}
	case config.SourceBrowser:
		src := page.NewBrowserSource(cfg.URL,
			page.WithHeadless(cfg.IsHeadless()),
			page.WithControlURL(cfg.ControlURL),
			page.WithBrowserLogger(logger.Component(log, "browser")),
		)
		return src, func() {
			if err := src.Close(); err != nil {
				log.Warn("closing browser", "error", err)
			}
		}
	default:
		return page.NewHTTPSource(cfg.URL, page.WithUserAgent(cfg.UserAgent)), func() {}
	}
}

func newSettings(cfg *config.SettingsConfig, log *slog.Logger) (*settings.Store, error) {
	opts := []settings.Option{settings.WithLogger(logger.Component(log, "settings"))}
	if cfg.File != "" {
		opts = append(opts, settings.WithFile(cfg.File))
	}
	s, err := settings.New(cfg.Defaults, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return s, nil
}

func newNotifier(cfg *config.DiscordConfig, log *slog.Logger) notify.Notifier {
	if cfg.Enabled {
		return notify.NewDiscordNotifier(cfg.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}

// openHistory connects to the decision history database and applies
// pending migrations. It returns nil when history is disabled.
func openHistory(ctx context.Context, cfg *config.DatabaseConfig) (*store.PostgresStore, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	db, err := store.NewPostgresStore(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

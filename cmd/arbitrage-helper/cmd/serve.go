package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luticapital/arbitrage-helper/api/openapi"
	"github.com/luticapital/arbitrage-helper/internal/api/handlers"
	"github.com/luticapital/arbitrage-helper/internal/api/middleware"
	"github.com/luticapital/arbitrage-helper/internal/api/stream"
	"github.com/luticapital/arbitrage-helper/internal/observer"
	"github.com/luticapital/arbitrage-helper/internal/render"
	"github.com/luticapital/arbitrage-helper/internal/scanner"
	"github.com/luticapital/arbitrage-helper/internal/surface"
	"github.com/luticapital/arbitrage-helper/pkg/logger"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the page observer and the API server",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefs, err := newSettings(&cfg.Settings, log)
	if err != nil {
		return err
	}

	db, err := openHistory(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	client, limiter := newOracle(&cfg.Oracle)

	src, closeSource := newSource(&cfg.Page, log)
	defer closeSource()

	var (
		renderer *render.Renderer
		sc       *scanner.Scanner
	)
	hub := stream.NewHub(
		stream.WithLogger(logger.Component(log, "stream")),
		stream.WithSnapshot(func() ([]domain.DecisionView, []domain.GridMark) {
			return renderer.Decisions(), sc.Marks()
		}),
	)
	defer hub.Close()

	alerts := surface.NewAlerts(
		newNotifier(&cfg.Notifications.Discord, log),
		surface.WithPageURL(cfg.Page.URL),
		surface.WithAlertsLogger(logger.Component(log, "alerts")),
	)
	out := surface.Multi{surface.NewLog(logger.Component(log, "surface")), alerts, hub}

	var (
		pinger  handlers.Pinger
		history handlers.HistoryProvider
	)
	if db != nil {
		out = append(out, surface.NewHistory(db))
		pinger, history = db, db
	}

	renderer = render.NewRenderer(client, out, prefs.Current(),
		render.WithLogger(logger.Component(log, "render")),
	)
	defer renderer.Close()

	sc = scanner.New(client, out,
		scanner.WithPause(cfg.Scanner.Pause),
		scanner.WithSkipSouvenir(cfg.Scanner.SkipsSouvenir()),
		scanner.WithLogger(logger.Component(log, "scanner")),
	)

	obs := observer.New(src, renderer, sc,
		observer.WithRetry(cfg.Observer.RetryAttempts, cfg.Observer.RetryInterval),
		observer.WithStartDelay(cfg.Scanner.StartDelay),
		observer.WithLogger(logger.Component(log, "observer")),
	)

	unsubscribe := prefs.Subscribe(func(s domain.Settings) {
		// Deals alerted under the old settings may alert again under the new ones.
		alerts.Reset()
		obs.ApplySettings(ctx, s)
	})
	defer unsubscribe()

	e := newServer(log, pinger, hub)
	api := humaecho.New(e, huma.DefaultConfig("Arbitrage Helper API", Version))
	openapi.RegisterRoutes(e, api)

	handlers.RegisterDecisionRoutes(api, handlers.NewDecisionsHandler(renderer))
	handlers.RegisterGridRoutes(api, handlers.NewGridHandler(sc))
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(obs))
	handlers.RegisterSettingsRoutes(api, handlers.NewSettingsHandler(prefs))
	handlers.RegisterEvaluateRoutes(api, handlers.NewEvaluateHandler(client, prefs))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(limiter))
	handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(history))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		// Hijacked websocket connections are not tracked by Shutdown.
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return obs.Run(ctx, cfg.Page.PollInterval)
	})

	g.Go(func() error {
		return prefs.Watch(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}

// newServer builds the echo instance with middleware and the routes that
// live outside the huma API.
func newServer(log *slog.Logger, db handlers.Pinger, hub *stream.Hub) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLog(logger.Component(log, "http")))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(db)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ws", echo.WrapHandler(hub))

	return e
}

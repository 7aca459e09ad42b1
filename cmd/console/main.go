package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/cms-console/internal/api/http"
	"github.com/spec-kit/cms-console/internal/api/http/handlers"
	"github.com/spec-kit/cms-console/internal/apiclient"
	"github.com/spec-kit/cms-console/internal/config"
	"github.com/spec-kit/cms-console/internal/events"
	"github.com/spec-kit/cms-console/internal/notify"
	"github.com/spec-kit/cms-console/internal/observability"
	"github.com/spec-kit/cms-console/internal/persistence"
	"github.com/spec-kit/cms-console/internal/preferences"
	"github.com/spec-kit/cms-console/internal/realtime"
	"github.com/spec-kit/cms-console/internal/routes"
	"github.com/spec-kit/cms-console/internal/service"
	"github.com/spec-kit/cms-console/internal/session"
	"github.com/spec-kit/cms-console/internal/storage"
	"github.com/spec-kit/cms-console/internal/worker"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	health := map[string]handlers.Pinger{}
	var backends storage.Backends

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if err := persistence.RunMigrations(ctx, pg.DB, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		backends.Postgres = pg.DB
		health["postgres"] = pg
	case config.DriverRedis:
		redis, err := persistence.NewRedis(ctx, cfg.Redis, cfg.App.Name, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		backends.Redis = redis.Client
		health["redis"] = redis
	}

	durable, err := storage.OpenDurable(cfg.Storage, backends)
	if err != nil {
		logger.Fatal("failed to open durable store", zap.Error(err))
	}

	sessions := session.NewManager(durable, storage.NewMemoryStore(), logger)
	if err := sessions.Initialize(ctx); err != nil {
		logger.Fatal("failed to restore session", zap.Error(err))
	}

	pages := routes.Default()
	if cfg.Routes.File != "" {
		if pages, err = pages.LoadOverrides(cfg.Routes.File); err != nil {
			logger.Fatal("failed to load route overrides", zap.Error(err))
		}
	}

	api := apiclient.New(sessions, apiclient.Options{
		BaseURL:   cfg.Backend.URL(),
		Timeout:   cfg.Backend.Timeout(),
		Navigator: navigator{logger: logger.Named("navigator")},
		Recorder:  metrics,
		Logger:    logger,
	})

	notificationPrefs, err := preferences.LoadNotifications(ctx, durable)
	if err != nil {
		logger.Fatal("failed to load notification preferences", zap.Error(err))
	}
	appearance, err := preferences.LoadAppearance(ctx, durable)
	if err != nil {
		logger.Fatal("failed to load appearance preferences", zap.Error(err))
	}

	bus := events.NewInMemoryDispatcher()
	feed := notify.NewFeed(cfg.Notify.ToastHistory, metrics)
	bridge := notify.NewBridge(bus, notificationPrefs, feed, newPlayer(cfg.Notify, logger), logger)

	authService := service.NewAuthService(api, sessions, logger)
	notificationService := service.NewNotificationService(api, notify.NewList(cfg.Notify.ListLimit), bus, logger)

	var runner worker.Runner
	if cfg.Realtime.Enabled {
		backoffMin, backoffMax := cfg.Realtime.Backoff()
		rt, err := realtime.New(bus, realtime.Options{
			URL:        cfg.Realtime.URL,
			BackoffMin: backoffMin,
			BackoffMax: backoffMax,
			Logger:     logger,
		})
		if err != nil {
			logger.Fatal("failed to configure realtime", zap.Error(err))
		}
		defer rt.Close() //nolint:errcheck
		runner = rt
		health["realtime"] = handlers.PingFunc(func(context.Context) error {
			if !rt.Connected() {
				return errors.New("not connected")
			}
			return nil
		})
	}
	stopWorker := worker.StartNotificationWorker(ctx, runner, logger, notificationService.RegisterHandlers, bridge.Start)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Pages:         pages,
		Sessions:      sessions,
		Metrics:       metrics,
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, health),
		Auth:          handlers.NewAuthHandler(authService, service.NewPasswordReset(api, logger), sessions),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Toasts:        handlers.NewToastsHandler(ctx, feed),
		Preferences:   handlers.NewPreferencesHandler(bridge, appearance),
		Resources:     handlers.NewResourcesHandler(service.NewResourceService(api, nil)),
		FAQs:          handlers.NewFAQHandler(service.NewFAQService(api, logger)),
		Stats:         handlers.NewStatsHandler(service.NewStatsService(api), metrics),
	})

	go func() {
		logger.Info("console listening", zap.String("addr", cfg.App.Addr()), zap.String("backend", cfg.Backend.URL()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	stopWorker()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// navigator logs the navigations the API client forces. The redirect itself
// is carried to the browser by the error the handler returns.
type navigator struct {
	logger *zap.Logger
}

func (n navigator) Navigate(path string) {
	n.logger.Info("forced navigation", zap.String("target", path))
}

func newPlayer(cfg config.NotifyConfig, logger *zap.Logger) notify.Player {
	if cfg.SoundCommand == "" {
		return notify.NopPlayer{}
	}
	p, err := notify.NewCommandPlayer(cfg.SoundCommand, cfg.SoundFile, logger)
	if err != nil {
		logger.Warn("sound cue disabled", zap.Error(err))
		return notify.NopPlayer{}
	}
	return p
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

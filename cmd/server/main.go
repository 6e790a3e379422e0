// Course Hub server entry point.
// Wires configuration, storage, the statistics cache and the application
// handlers, then serves the REST API until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eduhub/course-hub/config"
	"github.com/eduhub/course-hub/internal/application/command"
	"github.com/eduhub/course-hub/internal/application/query"
	"github.com/eduhub/course-hub/internal/infrastructure/external/notify"
	"github.com/eduhub/course-hub/internal/infrastructure/persistence/postgres"
	"github.com/eduhub/course-hub/internal/infrastructure/persistence/redis"
	httpapi "github.com/eduhub/course-hub/internal/interface/http"
	"github.com/eduhub/course-hub/pkg/logger"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Error("failed to load configuration", logger.Err(err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Observability.LogLevel))
	log.Info("starting course hub",
		logger.F("version", cfg.App.Version),
		logger.F("environment", string(cfg.App.Environment)))

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", logger.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Storage ────────────────────────────────────────────────────────────

	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	var cache *redis.StatsCache
	if !cfg.Redis.Disabled && cfg.Features.IsEnabled(config.FeatureStatsCache, "") {
		cacheCfg := redis.DefaultConfig()
		cacheCfg.Host = cfg.Redis.Host
		cacheCfg.Port = cfg.Redis.Port
		cacheCfg.Password = cfg.Redis.Password
		cacheCfg.DB = cfg.Redis.DB
		cacheCfg.PoolSize = cfg.Redis.PoolSize
		cacheCfg.DialTimeout = cfg.Redis.DialTimeout
		cacheCfg.ReadTimeout = cfg.Redis.ReadTimeout
		cacheCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err = redis.NewStatsCache(cacheCfg, log)
		if err != nil {
			// Statistics fall back to direct computation.
			log.Warn("stats cache unavailable, continuing without it", logger.Err(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	users := postgres.NewUserRepository(conn)
	courses := postgres.NewCourseRepository(conn)
	stats := postgres.NewStatsRepository(conn)

	// ─── External services ──────────────────────────────────────────────────

	var notifier command.Notifier
	if cfg.Notifier.Disabled || cfg.Notifier.BaseURL == "" {
		notifier = notify.Noop{}
	} else {
		notifyCfg := notify.DefaultConfig(cfg.Notifier.BaseURL)
		notifyCfg.APIKey = cfg.Notifier.APIKey
		notifyCfg.Timeout = cfg.Notifier.RequestTimeout
		notifier = notify.NewClient(notifyCfg, log)
	}
	notifier = notify.NewGated(notifier, cfg.Features.IsEnabled, log)

	// ─── HTTP server ────────────────────────────────────────────────────────

	trackActivity := cfg.Features.IsEnabled(config.FeatureTrackActivity, "")
	trackViews := cfg.Features.IsEnabled(config.FeatureTrackViews, "")
	wishlist := cfg.Features.IsEnabled(config.FeatureWishlist, "")

	serverCfg := httpapi.DefaultConfig()
	serverCfg.Addr = cfg.App.ListenAddr
	serverCfg.ShutdownTimeout = cfg.App.ShutdownTimeout

	server := httpapi.NewServer(serverCfg, httpapi.Deps{
		Accounts:         command.NewAccountHandler(users, notifier, wishlist, log),
		Content:          command.NewContentHandler(courses, log),
		Enroll:           command.NewEnrollHandler(users, courses, notifier, log),
		RecordProgress:   command.NewRecordProgressHandler(users, courses, log),
		RecordActivity:   command.NewRecordActivityHandler(users, trackActivity, log),
		RegisterView:     command.NewRegisterViewHandler(courses, trackViews, log),
		ChangeVisibility: command.NewChangeVisibilityHandler(courses, notifier, log),

		CourseStatistics:  query.NewGetCourseStatisticsHandler(courses, stats, cache, log),
		TeacherStatistics: query.NewGetTeacherStatisticsHandler(users, courses, stats, cache, log),
		AdminStatistics:   query.NewGetAdminStatisticsHandler(users, stats, cache, log),
		UserProgress:      query.NewGetUserProgressHandler(users, courses, log),

		HealthCheck: conn.Ping,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/efub/community-board/config"
	"github.com/efub/community-board/internal/application/service"
	"github.com/efub/community-board/internal/infrastructure/persistence/redis"
	httpserver "github.com/efub/community-board/internal/interface/http"
	"github.com/efub/community-board/internal/interface/http/health"
	"github.com/efub/community-board/pkg/circuitbreaker"
	"github.com/efub/community-board/pkg/logger"
	"github.com/efub/community-board/pkg/retry"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting community board",
		slog.String("version", version),
		slog.String("driver", cfg.Database.Driver),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 1. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		log.Info("closing storage...")
		store.close()
	}()

	if cfg.Database.AutoMigrate {
		if err := store.migrate(ctx, log); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	checks := health.NewComposite(version)
	checks.AddPinger("database", store)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var postCache service.PostCache
	if cfg.Redis.Enabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err := redis.NewCache(ctx, redisCfg, retry.ConnectPolicy())
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
		} else {
			defer func() { _ = cache.Close() }()
			postCache = redis.NewPostCache(cache, cfg.Redis.PostTTL,
				circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
					log.Warn("circuit breaker state changed",
						slog.String("breaker", name),
						slog.String("from", from.String()),
						slog.String("to", to.String()),
					)
				}),
			)
			checks.AddPinger("redis", cache)
			log.Info("Redis connection established", slog.String("addr", redisCfg.Addr()))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SERVICES
	// ─────────────────────────────────────────────────────────────────────────
	members := service.NewMemberService(store.members, service.BcryptHasher, log)
	boards := service.NewBoardService(store.boards, store.members, store.posts, postCache, log)
	posts := service.NewPostService(store.posts, store.boards, store.members, postCache, log)
	comments := service.NewCommentService(store.comments, store.posts, store.members, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	var registry *prometheus.Registry
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMin

	srv := httpserver.NewServer(httpCfg, httpserver.Dependencies{
		Members:  members,
		Boards:   boards,
		Posts:    posts,
		Comments: comments,
		Health:   checks,
		Registry: registry,
		Logger:   log,
		Version:  version,
	})

	errCh := srv.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	log.Info("community board stopped")
	return nil
}

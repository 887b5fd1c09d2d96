package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"noteapi/internal/config"
	"noteapi/internal/database"
	"noteapi/internal/database/migration"
	handlers "noteapi/internal/http/handler"
	"noteapi/internal/http/middleware"
	"noteapi/internal/otel"
	"noteapi/internal/ratelimit"
	"noteapi/internal/repository/postgres"
	"noteapi/internal/service"
	"noteapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// PostgreSQL connection with pooling via database/sql, instrumented
	db, err := database.NewPostgres(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	counter, closeCounter, err := newCounter(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect to rate limit store", zap.Error(err))
	}
	defer closeCounter()

	// S3-compatible object storage for note attachments (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	noteRepo := postgres.NewNotePostgres(db)
	attRepo := postgres.NewAttachmentPostgres(db)
	noteSvc := service.NewNoteService(noteRepo, logger)
	attSvc := service.NewAttachmentService(objStore, attRepo, noteRepo, logger)

	gate, err := ratelimit.NewGate(
		counter,
		ratelimit.KeyFuncForScope(cfg.RateLimit.Scope),
		cfg.RateLimit.Max,
		time.Duration(cfg.RateLimit.WindowSec)*time.Second,
		logger,
		prometheus.DefaultRegisterer,
	)
	if err != nil {
		logger.Fatal("failed to create admission gate", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}
	app.Use(promMiddleware.Handler())

	if cfg.IsProduction() {
		if cfg.CORSAllowOrigins != "" {
			app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
		}
	} else {
		app.Use(cors.New())
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, noteSvc, attSvc, handlers.Options{
		Gate:                gate.Handler(),
		LegacyValidation500: cfg.LegacyValidation500,
	})

	// In production the compiled frontend is served from the same process
	if cfg.IsProduction() {
		if _, err := os.Stat(cfg.StaticDir); err == nil {
			app.Static("/", cfg.StaticDir)
		} else {
			logger.Warn("static dir not found, skipping", zap.String("dir", cfg.StaticDir))
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newCounter builds the shared request counter for the admission gate. With a
// Redis address configured it is Redis-backed so the budget holds across
// replicas; without one it falls back to an in-process counter, which is only
// suitable for a single instance.
func newCounter(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (ratelimit.Counter, func(), error) {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not set, using in-process rate limit counter")
		return ratelimit.NewMemoryCounter(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return rdb.Ping(pingCtx).Err()
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}

	logger.Info("rate limit counter connected", zap.String("addr", cfg.Addr))
	return ratelimit.NewRedisCounter(rdb), func() { rdb.Close() }, nil
}

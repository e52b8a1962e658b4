package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/app"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/clock"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/config"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/events"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/rate"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/storage/postgres"
	transporthttp "github.com/KetteringPro/swipeashift-app-sub000/internal/transport/http"
	"github.com/KetteringPro/swipeashift-app-sub000/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Fatal("parse database url", zap.Error(err))
	}
	poolCfg.MaxConns = cfg.Database.MaxConns

	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	publisher := buildPublisher(startupCtx, cfg.Redis, logger)

	calc := rate.NewCalculator(rate.Params{
		PlatformShare:    cfg.Rate.PlatformShare,
		MaxUrgencyBonus:  cfg.Rate.MaxUrgencyBonus,
		UrgencyMinHours:  cfg.Rate.UrgencyMinHours,
		UrgencyMaxHours:  cfg.Rate.UrgencyMaxHours,
		UnfilledBonus:    cfg.Rate.UnfilledBonus,
		NoApplicantBonus: cfg.Rate.NoApplicantBonus,
		PendingStep:      cfg.Rate.PendingStep,
	}, logger)

	clk := clock.NewSystem()
	shiftRepo := postgres.NewShiftRepository(pool)
	swipeRepo := postgres.NewSwipeRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)

	demandSvc := app.NewDemandService(shiftRepo, calc, clk)
	swipeSvc := app.NewSwipeService(swipeRepo, calc, clk)
	applicationSvc := app.NewApplicationService(applicationRepo, calc, clk, publisher, logger)
	reviewSvc := app.NewReviewService(applicationRepo, clk, publisher, logger)
	adminSvc := app.NewShiftAdminService(shiftRepo, clk)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/shifts", transporthttp.HandleBrowseShifts(demandSvc))
	mux.Handle("/shifts/", transporthttp.HandleShiftDemand(demandSvc))
	mux.Handle("/swipes", transporthttp.HandleRecordSwipe(swipeSvc))
	mux.Handle("/applications", transporthttp.HandleApply(applicationSvc))
	mux.Handle("/applications/", transporthttp.HandleReviewApplication(reviewSvc))
	mux.Handle("/admin/shifts", transporthttp.HandleAdminShifts(adminSvc))
	mux.Handle("/admin/shifts/", transporthttp.HandleCancelShift(adminSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.Server.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	logger.Info("api listening", zap.Int("port", cfg.Server.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = lvl
	return cfg.Build()
}

// buildPublisher wires redis pub/sub when configured, falling back to the
// in-process publisher so the core never depends on a broker being up.
func buildPublisher(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) events.Publisher {
	if cfg.Addr == "" {
		logger.Warn("redis not configured, events stay in process")
		return events.NewMemoryPublisher()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, events stay in process", zap.Error(err))
		return events.NewMemoryPublisher()
	}
	return events.NewRedisPublisher(client)
}

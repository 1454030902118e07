package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-marketplace/internal/bootstrap"
	"github.com/iliyamo/activity-marketplace/internal/config"
	"github.com/iliyamo/activity-marketplace/internal/database"
	"github.com/iliyamo/activity-marketplace/internal/handler"
	"github.com/iliyamo/activity-marketplace/internal/logger"
	"github.com/iliyamo/activity-marketplace/internal/middleware"
	"github.com/iliyamo/activity-marketplace/internal/queue"
	"github.com/iliyamo/activity-marketplace/internal/repository"
	"github.com/iliyamo/activity-marketplace/internal/router"
	"github.com/iliyamo/activity-marketplace/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}
	logger.Init(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	activities, bookings, db, err := openStores(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to open stores")
	}
	if db != nil {
		defer db.Close()
	}

	// seeding must finish before the first request is accepted
	if cfg.SeedOnStart {
		if _, err := bootstrap.Seed(ctx, activities); err != nil {
			logger.Log.WithError(err).Fatal("failed to seed activities")
		}
	}

	var publisher service.EventPublisher
	if cfg.EventsEnabled {
		publisher = queue.NewPublisher(cfg.RabbitMQURL)
		sink := &queue.BookingLog{Path: cfg.BookingLogPath}
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.RabbitMQURL, sink); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.WithError(err).Error("booking consumer stopped")
			}
		}()
	}

	var rateLimit echo.MiddlewareFunc
	if rlCfg, err := config.LoadRateLimitConfig(); err != nil {
		logger.Log.WithError(err).Warn("invalid rate limit configuration; limiter disabled")
	} else if rlCfg.Enabled {
		rdb := config.NewRedisClient()
		if rdb == nil {
			logger.Log.Warn("redis unreachable; rate limiting disabled")
		} else {
			defer rdb.Close()
			rateLimit = middleware.NewTokenBucket(rlCfg, rdb)
		}
	}

	e := router.New(router.Options{
		Activities:    handler.NewActivityHandler(service.NewActivityService(activities)),
		Bookings:      handler.NewBookingHandler(service.NewBookingService(activities, bookings, publisher)),
		AllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimit:     rateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Log.WithField("addr", srv.Addr).WithField("env", cfg.Env).WithField("store", cfg.StoreDriver).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server error")
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("graceful shutdown failed")
	}
}

// openStores returns the activity and booking stores for cfg.StoreDriver.
// The *sql.DB is nil for the memory driver.
func openStores(ctx context.Context, cfg config.Config) (repository.ActivityStore, repository.BookingStore, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		activities, bookings := repository.NewMemoryStores()
		return activities, bookings, nil, nil
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	return repository.NewActivityRepo(db), repository.NewBookingRepo(db), db, nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/config"
	dbpkg "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/db"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/memory"
	infraRepo "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/repository"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/storage"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/logging"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/routes"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
)

func main() {
	logger := logging.New("skipthequeue")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := routes.Deps{
		Config: cfg,
		Logger: logger,
		Clock:  timezone.SystemClock(),
	}

	// ======================================================
	// STORAGE
	// ======================================================
	var sink audit.Sink
	switch cfg.DBDriver {
	case config.DriverMemory:
		store := memory.New()
		deps.Appointments = store.Appointments()
		deps.Barbers = store.Barbers()
		deps.Reviews = store.Reviews()
		deps.Users = store.Users()
		deps.AuditReader = store
		sink = store
		logger.Warn("using in-memory store, data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			logger.Error("database unavailable", "err", err)
			os.Exit(1)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		auditLogger := audit.New(db)
		deps.Appointments = infraRepo.NewAppointmentGormRepository(db)
		deps.Barbers = infraRepo.NewBarberGormRepository(db)
		deps.Reviews = infraRepo.NewReviewGormRepository(db)
		deps.Users = infraRepo.NewUserGormRepository(db)
		deps.AuditReader = auditLogger
		sink = auditLogger
	}

	dispatcher := audit.NewDispatcher(sink, logger)
	defer dispatcher.Close()
	deps.Audit = dispatcher

	// ======================================================
	// LOCKS
	// ======================================================
	if cfg.RedisURL != "" {
		rdb, err := lock.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("redis unavailable", "err", err)
			os.Exit(1)
		}

		deps.Locker = lock.NewRedis(rdb, cfg.LockTTL, cfg.LockWait, logger)
	} else {
		deps.Locker = lock.NewLocal(cfg.LockWait)
	}

	// ======================================================
	// OBJECT STORAGE
	// ======================================================
	if cfg.S3.Enabled() {
		deps.Objects = storage.NewS3(cfg.S3)
	} else {
		logger.Info("S3 not configured, avatar uploads disabled")
	}

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	go limiter.Sweep(ctx)
	deps.RateLimiter = limiter

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}


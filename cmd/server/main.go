package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tutor-marketplace-api/db/migrations"
	"tutor-marketplace-api/internal/config"
	"tutor-marketplace-api/internal/handler"
	"tutor-marketplace-api/internal/logger"
	"tutor-marketplace-api/internal/middleware"
	"tutor-marketplace-api/internal/migrate"
	"tutor-marketplace-api/internal/ops"
	"tutor-marketplace-api/internal/recovery"
	"tutor-marketplace-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal("db ping", zap.Error(err))
	}
	log.Info("connected to postgres")

	// run migrations
	m, err := migrate.New(pool, migrations.FS, log)
	if err != nil {
		log.Fatal("migrator", zap.Error(err))
	}
	if err := m.Up(ctx); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	m.Close()

	// redis for password reset tokens
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis url", zap.Error(err))
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()
	resets := recovery.New(rdb, recovery.DefaultTTL)
	if err := resets.Ping(ctx); err != nil {
		log.Warn("redis unreachable, password resets will fail", zap.Error(err))
	}

	st := store.New(pool, log)
	h := handler.New(st, resets, recovery.LogMailer{Log: log}, cfg.JWTSecret, log)

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rl.Close()

	// ops grpc server
	opsSrv := ops.New(map[string]ops.Pinger{"postgres": st, "redis": resets}, cfg.HealthInterval, rl, log)
	lis, err := net.Listen("tcp", ":"+cfg.OpsPort)
	if err != nil {
		log.Fatal("listen", zap.Error(err))
	}
	go opsSrv.Watch(ctx)
	go func() {
		if err := opsSrv.Serve(lis); err != nil {
			log.Error("grpc", zap.Error(err))
		}
	}()

	// http api
	httpSrv := &http.Server{
		Addr: ":" + cfg.WebPort,
		Handler: handler.NewRouter(h, handler.RouterConfig{
			CORSOrigin:   cfg.CORSOrigin,
			QueryTimeout: cfg.QueryTimeout,
			Limiter:      rl,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("http listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http", zap.Error(err))
			stop()
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	opsSrv.Stop()
}

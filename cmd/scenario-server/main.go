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

	"github.com/gorilla/mux"
	"github.com/iwvelando/scenario-engine/internal/cache"
	"github.com/iwvelando/scenario-engine/internal/logging"
	"github.com/iwvelando/scenario-engine/internal/scenario"
	"github.com/iwvelando/scenario-engine/internal/server"
	"github.com/iwvelando/scenario-engine/internal/store"
	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	conf, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := scenario.Options{CacheTTL: conf.CacheTTL()}

	if conf.Database.URL != "" {
		buildings, err := store.Open(ctx, conf.Database.URL, logger)
		if err != nil {
			logger.Fatal("failed to open building store",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		defer func() {
			_ = buildings.Close()
		}()
		if conf.Database.Migrate {
			if err := buildings.Migrate(ctx); err != nil {
				logger.Fatal("failed to migrate building store",
					zap.String("op", "main"),
					zap.Error(err),
				)
			}
		}
		opts.Store = buildings
	} else {
		logger.Info("no database configured; building endpoints are disabled",
			zap.String("op", "main"),
		)
	}

	if conf.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(conf.Redis.Addr)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis is not reachable; results will be cached once it is",
				zap.String("op", "main"),
				zap.String("addr", conf.Redis.Addr),
				zap.Error(err),
			)
		}
		defer func() {
			_ = redisCache.Close()
		}()
		opts.Cache = redisCache
	} else {
		opts.Cache = cache.NewMemoryCache()
	}

	service := scenario.NewService(logger, nil, opts)

	var middleware []mux.MiddlewareFunc
	if conf.RateLimit.RequestsPerSecond > 0 {
		limiter := server.NewRateLimiter(conf.RateLimit.RequestsPerSecond, conf.RateLimit.Burst, logger)
		limiter.StartPruning(ctx, time.Minute)
		middleware = append(middleware, limiter.Middleware)
	}

	srv := &http.Server{
		Addr:              conf.Address,
		Handler:           server.NewHandler(logger, service, conf.BodySizeBytes(), version, middleware...),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Info("starting scenario server",
			zap.String("op", "main"),
			zap.String("address", conf.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down scenario server",
		zap.String("op", "main"),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

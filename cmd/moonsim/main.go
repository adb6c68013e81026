package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/Hortyhort/moonsim/internal/api"
	"github.com/Hortyhort/moonsim/internal/auth"
	"github.com/Hortyhort/moonsim/internal/skyframe"
	"github.com/Hortyhort/moonsim/internal/stream"
	"github.com/Hortyhort/moonsim/internal/transform"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	addr := os.Getenv("MOONSIM_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	site, err := loadSiteConfig(logger)
	if err != nil {
		logger.Error("invalid site configuration", "error", err)
		os.Exit(1)
	}
	observer := transform.NewObserver(site.Latitude, site.Longitude)

	genCfg := loadGenConfig(logger)
	gen := skyframe.NewGenerator(observer, genCfg, logger)

	cacheCfg := loadCacheConfig(logger, genCfg)
	cache := skyframe.NewCache(cacheCfg, gen, logger)

	streamCfg := loadStreamConfig(logger)
	streamHandler := stream.NewHandler(cache, observer, streamCfg, logger)

	srv := api.NewServer(addr, logger, authCfg, observer, cache, streamHandler)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start cache maintenance: horizon prewarm plus periodic eviction.
	go cache.Start(ctx)

	go func() {
		logger.Info("starting server",
			"addr", addr,
			"auth_enabled", authCfg.Enabled,
			"observer_lat", site.Latitude,
			"observer_lon", site.Longitude,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("MOONSIM_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("MOONSIM_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("MOONSIM_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("MOONSIM_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

func loadGenConfig(logger *slog.Logger) skyframe.GenConfig {
	cfg := skyframe.GenConfig{
		Workers: runtime.NumCPU(),
		Step:    1 * time.Second,
		Horizon: 300 * time.Second,
	}

	if v := os.Getenv("MOONSIM_GEN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid MOONSIM_GEN_WORKERS value, using default", "value", v, "default", cfg.Workers)
		} else {
			cfg.Workers = n
		}
	}

	if v := os.Getenv("MOONSIM_FRAME_STEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid MOONSIM_FRAME_STEP value, using default", "value", v, "default", 1)
		} else {
			cfg.Step = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("MOONSIM_FRAME_HORIZON"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid MOONSIM_FRAME_HORIZON value, using default", "value", v, "default", 300)
		} else {
			cfg.Horizon = time.Duration(n) * time.Second
		}
	}

	logger.Info("generator config",
		"workers", cfg.Workers,
		"step_seconds", cfg.Step.Seconds(),
		"horizon_seconds", cfg.Horizon.Seconds(),
	)

	return cfg
}

func loadCacheConfig(logger *slog.Logger, genCfg skyframe.GenConfig) skyframe.CacheConfig {
	cfg := skyframe.CacheConfig{
		Step:   genCfg.Step,
		Buffer: 60 * time.Second,
	}

	if v := os.Getenv("MOONSIM_CACHE_STEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid MOONSIM_CACHE_STEP value, using frame step", "value", v)
		} else {
			cfg.Step = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("MOONSIM_CACHE_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid MOONSIM_CACHE_BUFFER value, using default", "value", v, "default", 60)
		} else {
			cfg.Buffer = time.Duration(n) * time.Second
		}
	}

	logger.Info("cache config",
		"step_seconds", cfg.Step.Seconds(),
		"buffer_seconds", cfg.Buffer.Seconds(),
	)

	return cfg
}

func loadStreamConfig(logger *slog.Logger) stream.Config {
	cfg := stream.Config{
		MaxConcurrentPerIP: 10,
		MaxRate:            86400, // one simulated day per wall second
		KeepaliveInterval:  30 * time.Second,
	}

	if v := os.Getenv("MOONSIM_STREAM_MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid MOONSIM_STREAM_MAX_CONCURRENT value, using default", "value", v, "default", 10)
		} else {
			cfg.MaxConcurrentPerIP = n
		}
	}

	if v := os.Getenv("MOONSIM_STREAM_MAX_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 1 {
			logger.Warn("invalid MOONSIM_STREAM_MAX_RATE value, using default", "value", v, "default", 86400)
		} else {
			cfg.MaxRate = f
		}
	}

	if v := os.Getenv("MOONSIM_STREAM_KEEPALIVE_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid MOONSIM_STREAM_KEEPALIVE_INTERVAL value, using default", "value", v, "default", 30)
		} else {
			cfg.KeepaliveInterval = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("MOONSIM_TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid MOONSIM_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = b
		}
	}

	logger.Info("stream config",
		"max_concurrent_per_ip", cfg.MaxConcurrentPerIP,
		"max_rate", cfg.MaxRate,
		"keepalive_interval_seconds", cfg.KeepaliveInterval.Seconds(),
		"trust_proxy", cfg.TrustProxy,
	)

	return cfg
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/prismhq/prism-api/internal/cache"
	"github.com/prismhq/prism-api/internal/config"
	"github.com/prismhq/prism-api/internal/db"
	httpx "github.com/prismhq/prism-api/internal/http"
	"github.com/prismhq/prism-api/internal/observability"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing is optional; only wired when an endpoint is configured
	var shutdownTracer func(context.Context) error

	if cfg.OtelEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		var err error
		shutdownTracer, err = observability.InitTracer(ctx, "prism-api", cfg.OtelEndpoint)
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
	}

	// database

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.Migrate(cfg.DBURL); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	{
		ctx, cancel := config.WithTimeout(5 * time.Second)
		err = db.EnsureAdminUser(ctx, pool, cfg)
		cancel()

		if err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
	}

	// metrics + cache

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	prom := observability.NewProm(reg)

	listCache := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.ListCacheTTL,
	}, prom)

	defer listCache.Close()

	// set up router

	router := httpx.NewRouter(log, pool, listCache, prom, reg, cfg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if shutdownTracer != nil {
			if err := shutdownTracer(ctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

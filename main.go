package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"business-scraper/browser"
	"business-scraper/cache"
	"business-scraper/config"
	"business-scraper/enrich"
	"business-scraper/scraper/gmaps"
	"business-scraper/scraper/linkedin"
	"business-scraper/server"
	"business-scraper/storage"
	"business-scraper/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	utils.Section("business-scraper")
	utils.Info("Starting | addr=%s headless=%t max_reviews=%d delay=%v-%v",
		cfg.ListenAddr, cfg.Headless, cfg.MaxReviews, cfg.MinDelay, cfg.MaxDelay)

	launcher := browser.NewLauncher(cfg)
	defer launcher.Close()

	resolved := cache.NewNoop()
	if cfg.RedisAddr != "" {
		resolved = cache.NewRedis(cfg.RedisAddr, cfg.CachePrefix, cfg.CacheTTL)
		utils.Info("Resolver cache enabled at %s", cfg.RedisAddr)
	}
	defer resolved.Close()

	var archive server.Archiver
	if cfg.DBEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ar, err := storage.NewArchive(ctx, cfg)
		if err != nil {
			cancel()
			utils.Error("Failed to connect PostgreSQL: %v", err)
			os.Exit(1)
		}
		if err := ar.EnsureSchema(ctx); err != nil {
			cancel()
			utils.Error("Failed to ensure PostgreSQL schema: %v", err)
			os.Exit(1)
		}
		cancel()
		defer ar.Close()
		archive = ar
		utils.Info("Archive enabled at %s:%d/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	}

	enricher := enrich.NewClient(cfg)
	if enricher.Enabled() {
		utils.Info("Enrichment enabled for dataset %s", cfg.BrightDataSet)
	}

	srv := server.New(cfg,
		launcher,
		gmaps.New(cfg, resolved),
		linkedin.New(cfg),
		enricher,
		archive,
	)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Success("Listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("Server stopped: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	utils.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		utils.Warn("Shutdown incomplete: %v", err)
	}
}

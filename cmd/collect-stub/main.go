// collect-stub serves a seeded, in-process implementation of the Carpay
// Collect enrollments API for dashboard development and client testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carpay/collect/internal/api"
	"github.com/carpay/collect/internal/config"
	"github.com/carpay/collect/internal/pkg/logger"
	"github.com/carpay/collect/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	noSeed := flag.Bool("no-seed", false, "start with an empty dataset")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("loading config failed", "error", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.Storage)
	if err != nil {
		logger.Error("initializing store failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if !*noSeed {
		if err := store.Seed(ctx, st); err != nil {
			logger.Error("seeding store failed", "error", err)
			os.Exit(1)
		}
		logger.Info("demo dataset loaded", "backend", cfg.Storage.Backend)
	}

	handlers := api.NewHandlers(st)
	router := api.SetupRoutes(handlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("stub backend listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

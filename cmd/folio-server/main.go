package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/server"
)

func main() {
	common.LoadVersionFromFile()

	configPath := os.Getenv("FOLIO_CONFIG")
	if configPath == "" {
		configPath = "folio.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)

	a, err := app.NewApp(config, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(config, logger)

	// Background market refresh, stopped on shutdown
	schedCtx, stopSched := context.WithCancel(context.Background())
	a.StartScheduler(schedCtx)

	srv := server.NewServer(a)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", config.Server.Port)).
		Msg("Server ready")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")
	stopSched()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := a.Close(); err != nil {
		logger.Error().Err(err).Msg("Application close failed")
	}

	common.PrintShutdownBanner(logger)
	logger.Info().Msg("Server stopped")
}

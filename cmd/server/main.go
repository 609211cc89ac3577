package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docchat-client/internal/api"
	"docchat-client/internal/backend"
	"docchat-client/internal/config"
	"docchat-client/internal/session"
	"docchat-client/internal/videometa"
	"docchat-client/internal/viewer"

	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	bc := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout)
	titles := videometa.NewClient(15 * time.Second)

	// Initialize the session manager.
	sessions := session.NewManager(bc, titles, session.Options{
		TopK:             cfg.TopK,
		PreReadySeek:     viewer.PreReadyPolicy(cfg.PreReadySeek),
		EmphasisDuration: cfg.EmphasisDuration,
		SplitInitialPct:  cfg.SplitInitialPct,
		SplitMinPct:      cfg.SplitMinPct,
		SplitMaxPct:      cfg.SplitMaxPct,
	}, log)

	// Initialize HTTP server.
	srv := api.NewServer(sessions, bc, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sessions.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		bc.Close()
	}()

	log.Info("starting docchat client gateway", "port", cfg.Port, "backend", cfg.BackendURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

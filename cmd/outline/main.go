// Command outline extracts a title and heading outline from every matching
// document in INPUT_DIR and writes one result per document to OUTPUT_DIR.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.ValidateBatch(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := pipeline.RunBatch(ctx, cfg, log)
	if err != nil {
		log.Error("batch aborted", "error", err)
		os.Exit(1)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

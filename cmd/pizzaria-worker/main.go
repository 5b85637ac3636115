package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pizzaria/internal/cli"
	applog "pizzaria/internal/log"
	"pizzaria/internal/sheets"
	"pizzaria/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := cli.InitStorage(ctx, logger, cfg)
	defer repo.Close()

	// The spreadsheet mirror is optional; without it the worker only
	// runs the overdue sweep.
	var mirror worker.ExpenseMirror
	if cfg.GoogleSpreadsheetID != "" {
		m, err := sheets.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets mirror", "error", err)
			os.Exit(1)
		}
		mirror = m
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient := cli.InitAMQP(logger, cfg)
	var consumer worker.EventConsumer
	if amqpClient != nil {
		defer amqpClient.Close()
		consumer = amqpClient
	}

	w := worker.New(repo, consumer, mirror, cfg.SweepInterval)

	logger.Info("Starting pizzaria worker", "sweep_interval", cfg.SweepInterval.String())
	if err := w.Run(ctx); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pizzaria/internal/amqp"
	"pizzaria/internal/api"
	"pizzaria/internal/cli"
	applog "pizzaria/internal/log"
	"pizzaria/internal/services"
)

func eventPublisher(c *amqp.Client) services.EventPublisher {
	if c == nil {
		return nil
	}
	return c
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentAPI)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	repo := cli.InitStorage(ctx, logger, cfg)
	events := cli.InitAMQP(logger, cfg)

	svc := services.NewExpenseService(repo, eventPublisher(events))
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Service close error", "error", err)
		}
	}()

	srv := api.NewServer(svc, cfg.SeedCategories())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		if err := srv.Shutdown(); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting pizzaria API", "port", cfg.APIPort)
	if err := srv.Listen(":" + cfg.APIPort); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.APIPort)
		os.Exit(1)
	}
	logger.Info("API stopped gracefully")
}

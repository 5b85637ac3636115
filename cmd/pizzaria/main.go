package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzaria/internal/amqp"
	"pizzaria/internal/cli"
	apphttp "pizzaria/internal/http"
	applog "pizzaria/internal/log"
	"pizzaria/internal/services"
)

// eventPublisher avoids handing the service a non-nil interface
// wrapping a nil client.
func eventPublisher(c *amqp.Client) services.EventPublisher {
	if c == nil {
		return nil
	}
	return c
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentHTTP)
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

	srv := apphttp.NewServer(":"+cfg.WebPort, svc)
	srv.Handler = applog.Middleware(logger)(srv.Handler)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting pizzaria server", "port", cfg.WebPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.WebPort)
		os.Exit(1)
	}

	<-shutdownCtx.Done()
	logger.Info("Server stopped gracefully")
}

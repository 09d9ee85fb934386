package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbook/internal/amqp"
	"finbook/internal/auth"
	"finbook/internal/cli"
	apphttp "finbook/internal/http"
	applog "finbook/internal/log"
	"finbook/internal/services"
)

const tokenTTL = 24 * time.Hour

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	logger.Info("Starting finbook server")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional; without it transactions are only picked up by the
	// worker's periodic catch-up scan.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync publishing", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized")
		}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, tokenTTL)
	transactions := services.NewTransactionService(repo, publisher)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:              ":" + cfg.Port,
		RequestsPerMinute: 60,
		OverviewCacheSize: cfg.OverviewCacheSize,
		OverviewCacheTTL:  cfg.OverviewCacheTTL,
	}, repo, transactions, tokens)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

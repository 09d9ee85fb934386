package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbook/internal/amqp"
	"finbook/internal/cli"
	applog "finbook/internal/log"
	"finbook/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentRecurring)

	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional here too; created transactions stay pending until
	// the sync worker's catch-up scan finds them.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized")
		}
	}

	transactions := services.NewTransactionService(repo, publisher)
	processor := services.NewRecurringProcessor(repo, transactions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Recurring transaction processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	// Run once on startup, then on every tick.
	if count, err := processor.ProcessDueTemplates(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recurring worker stopped gracefully")
			return
		case <-ticker.C:
			if count, err := processor.ProcessDueTemplates(ctx, time.Now()); err != nil {
				logger.Error("Recurring processing failed", "error", err)
			} else if count > 0 {
				logger.Info("Recurring processing complete", "transactions_created", count)
			}
		}
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"finbook/internal/amqp"
	"finbook/internal/cli"
	applog "finbook/internal/log"
	"finbook/internal/sheets"
	gsheet "finbook/internal/sheets/google"
	"finbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting finbook-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if !cfg.SheetsMirrorEnabled {
		logger.Error("Sheets mirror is disabled, nothing for the worker to do (set SHEETS_MIRROR_ENABLED=true)")
		os.Exit(1)
	}

	sheetsClient, err := gsheet.NewFromEnv(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	var mirror sheets.MirrorWriter = sheetsClient
	var remover sheets.MirrorRemover = sheetsClient
	syncWorker := worker.NewSyncWorker(repo, mirror, remover, cfg.SyncBatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	// Drain anything that accumulated while the worker was down.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeTransactionSync(gctx, func(msg *amqp.TransactionSyncMessage) error {
			return syncWorker.HandleSyncMessage(gctx, msg)
		})
	})

	// Periodic catch-up for messages lost between publisher and broker.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPendingTransactions(gctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"micropartner/internal/amqp"
	"micropartner/internal/cli"
	"micropartner/internal/log"
	"micropartner/internal/services"
	ports "micropartner/internal/sheets"
	"micropartner/internal/sheets/csvexport"
	gsheet "micropartner/internal/sheets/google"
	"micropartner/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting sync-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// Snapshots land in the same SQLite database the server reads from.
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Upstream source: Sheets API when credentials are configured, CSV
	// export otherwise.
	var upstream ports.RowSource
	if gcli, err := gsheet.NewFromEnv(context.Background()); err == nil {
		upstream = gcli
		logger.Info("Using Google Sheets API as upstream source")
	} else {
		logger.Info("Google Sheets API unavailable, using CSV export", "reason", err)
		upstream = csvexport.New(cfg.SheetLink)
	}

	sheets := services.SheetNames{
		Users:        cfg.UsersSheet,
		CancelOrder:  cfg.CancelOrderSheet,
		IndirectSale: cfg.IndirectSaleSheet,
	}
	processor := services.NewSyncProcessor(upstream, repo, sheets)
	syncWorker := worker.NewSyncWorker(processor, repo, cfg.SnapshotMaxAge)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Don't exit - continue with normal operation
	}

	// Consume refresh requests when AMQP is configured.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			handler := func(msg *amqp.SheetRefreshMessage) error {
				return syncWorker.HandleRefreshMessage(ctx, msg)
			}
			if err := amqpClient.ConsumeSheetRefresh(ctx, handler); err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", "error", err)
				}
				cancel()
			}
		}()
	} else {
		logger.Info("AMQP not configured, relying on periodic sync only")
	}

	// Periodic re-sync as a backstop for missed refresh messages.
	go syncWorker.RunPeriodic(ctx, cfg.SyncInterval)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Shutting down worker...")
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}

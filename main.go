package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hypemarket/coinauction/coinauction"
	"github.com/hypemarket/coinauction/coinauction/archive"
	"github.com/hypemarket/coinauction/coinauction/database"
	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/database/repositories"
	"github.com/hypemarket/coinauction/coinauction/engine"
	"github.com/hypemarket/coinauction/coinauction/logger"
	"github.com/hypemarket/coinauction/coinauction/server"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting coinauction service",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := coinauction.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	eng := engine.New(db, engine.Options{
		MinIncrement:    cfg.Engine.MinIncrement,
		ExtensionWindow: time.Duration(cfg.Engine.ExtensionWindowSecs) * time.Second,
		ExtensionAmount: time.Duration(cfg.Engine.ExtensionAmountSecs) * time.Second,
		MaxExtensions:   cfg.Engine.MaxExtensions,
	})

	if cfg.Spaces.Bucket != "" {
		exporter, err := archive.NewExporter(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.Root,
		)
		if err != nil {
			slog.Error("Failed to initialize settlement archive",
				slog.String("error", err.Error()))
			os.Exit(-1)
		}
		eng.SetSettlementHook(func(ctx context.Context, auction *models.Auction) {
			if err := exporter.ExportSettlement(ctx, auction); err != nil {
				slog.Error("Failed to archive settlement",
					slog.String("auction_code", auction.AuctionCode),
					slog.String("error", err.Error()))
			}
		})
		slog.Info("Settlement archive enabled", slog.String("bucket", cfg.Spaces.Bucket))
	}

	scheduler := engine.NewScheduler(eng, time.Duration(cfg.Engine.SweepIntervalSecs)*time.Second)
	scheduler.Start()
	defer scheduler.Shutdown()

	dispatcher := engine.NewOutboxDispatcher(
		repositories.NewOutboxRepository(db.BunDB()),
		engine.NewLogNotifier(),
	)
	dispatcher.Start()
	defer dispatcher.Shutdown()

	srv := server.New(eng)
	go func() {
		addr := cfg.Server.Addr
		if addr == "" {
			addr = ":8080"
		}
		if err := srv.Listen(addr); err != nil {
			slog.Error("HTTP server stopped", slog.String("error", err.Error()))
		}
	}()

	logger.LogSystem("Coinauction service started, press Ctrl+C to exit")

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-s

	slog.Info("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		logger.LogError("HTTP server shutdown failed", err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WalletScore/internal/api"
	"WalletScore/internal/assessment"
	"WalletScore/internal/collector"
	"WalletScore/internal/config"
	"WalletScore/internal/notifier"
	"WalletScore/internal/observability"
	"WalletScore/internal/pipeline"
	"WalletScore/internal/recorder"
	"WalletScore/internal/scheduler"
	"WalletScore/internal/scoring"
	"WalletScore/internal/watchlist"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] WalletScore starting...")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	metrics := observability.NewMetrics(observability.DefaultNamespace)

	col := collector.NewFromConfig(cfg, metrics)
	log.Printf("[INFO] data source: %s", col.Chain.Name())

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	oracle := cfg.Oracle()
	pipe := pipeline.New(col, assessment.New(oracle, cfg.Scoring.RepaymentMatch), scoring.New(oracle), rec, metrics)

	wl, err := watchlist.NewManager(cfg.Watchlist.StateFile, cfg.Watchlist.Wallets)
	if err != nil {
		log.Fatalf("[FATAL] init watchlist: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		tn     *notifier.TelegramNotifier
		sender scheduler.Sender
	)
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Println("[WARN] telegram not configured, alerts will only be logged")
	}

	sched := scheduler.NewScheduler(ctx, pipe, wl, sender, rec, metrics)
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, rescoring watchlist now")
		go sched.RunWatchNow()
	}

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           api.NewServer(pipe, rec, metrics).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] WalletScore is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] WalletScore stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FarmSentinel/internal/collector"
	"FarmSentinel/internal/config"
	"FarmSentinel/internal/notifier"
	"FarmSentinel/internal/recorder"
	"FarmSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FarmSentinel starting...")

	// Load config
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

	// Init admin API fetcher
	fetcher := collector.NewAdminFetcher(cfg.Admin.BaseURL, cfg.Admin.Password, cfg.Proxy)
	log.Printf("[INFO] admin API: %s", fetcher.BaseURL())

	// Init messaging sink
	var sink notifier.Sink
	var tg *notifier.TelegramSink
	switch cfg.Sink.Type {
	case "telegram":
		tg, err = notifier.NewTelegramSink(cfg.Sink.Telegram.BotToken)
		if err != nil {
			log.Fatalf("[FATAL] init telegram sink: %v", err)
		}
		sink = tg
	default:
		sink = notifier.NewOneBotSink(cfg.Sink.OneBot.APIURL, cfg.Sink.OneBot.AccessToken, cfg.Proxy)
	}
	log.Printf("[INFO] messaging sink: %s", sink.Name())

	// Init recorder
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

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.New(ctx, fetcher, sink, rec)
	if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("[FATAL] register digest task: %v", err)
	}
	sched.StartCron()
	defer sched.StopCron()

	loopDone := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(loopDone)
	}()

	// Inbound commands arrive via Telegram long polling when that sink is
	// active; with OneBot the host process dispatches to HandleCommand.
	if tg != nil {
		go tg.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] telegram polling started")
	}

	log.Println("[INFO] FarmSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	// Let an in-flight tick finish before tearing down.
	<-loopDone
	log.Println("[INFO] FarmSentinel stopped")
}

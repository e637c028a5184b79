package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AlgoSentinel/internal/api"
	"AlgoSentinel/internal/collector"
	"AlgoSentinel/internal/config"
	"AlgoSentinel/internal/metrics"
	"AlgoSentinel/internal/notifier"
	"AlgoSentinel/internal/pipeline"
	"AlgoSentinel/internal/recorder"
	"AlgoSentinel/internal/scheduler"
	"AlgoSentinel/internal/trace"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline a single time and exit")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] AlgoSentinel starting...")

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

	if err := trace.Init(cfg.Tracing.Enabled, nil); err != nil {
		log.Printf("[WARN] tracing disabled: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := trace.Shutdown(ctx); err != nil {
			log.Printf("[WARN] trace shutdown: %v", err)
		}
	}()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = &collector.MockFetcher{Price: 100}
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s, symbols: %v", fetcher.Name(), cfg.Symbols)

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	m := metrics.NewMetrics()
	pipe := pipeline.New(cfg, collector.NewCollector(fetcher), tn, rec, m)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if _, err := pipe.Run(ctx); err != nil {
			log.Printf("[ERROR] run: %v", err)
			tn.Notify(ctx, notifier.FormatError(err))
			return
		}
		log.Println("[INFO] single run complete")
		return
	}

	if err := pipe.Restore(); err != nil {
		log.Printf("[WARN] %v", err)
	}

	sched := scheduler.NewScheduler(ctx, pipe, tn, cfg.Symbols)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	var srv *api.Server
	if cfg.API.Addr != "" {
		srv = api.NewServer(cfg.API.Addr, pipe, m)
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("[ERROR] API server: %v", err)
			}
		}()
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing pipeline now")
		go sched.RunNow()
	}

	log.Println("[INFO] AlgoSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Println("[INFO] shutdown signal received, stopping...")
	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Printf("[WARN] API shutdown: %v", err)
		}
	}
	log.Println("[INFO] AlgoSentinel stopped")
}

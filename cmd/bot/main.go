package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FundAdvisor/internal/advisor"
	"FundAdvisor/internal/collector"
	"FundAdvisor/internal/config"
	"FundAdvisor/internal/ledger"
	"FundAdvisor/internal/notifier"
	"FundAdvisor/internal/recorder"
	"FundAdvisor/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FundAdvisor starting...")

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

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init collector
	col := collector.NewCollector(collector.NewEastmoneyFetcher(cfg.Proxy))
	log.Printf("[INFO] data source: %s", col.Fetcher.Name())

	// Init position ledger
	lm, err := ledger.NewManager(cfg.Ledger.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init position ledger: %v", err)
	}

	// Init sentiment advisor
	var adv advisor.Advisor
	if cfg.Gemini.APIKey != "" {
		ga, err := advisor.NewGeminiAdvisor(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("[WARN] init gemini advisor failed, using noop: %v", err)
			adv = advisor.NewNoopAdvisor()
		} else {
			adv = ga
		}
	} else {
		adv = advisor.NewNoopAdvisor()
	}
	log.Printf("[INFO] sentiment advisor: %s", adv.Name())

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

	// Init mailer
	mailer := notifier.NewMailer(notifier.SMTPConfig{
		Server:   cfg.SMTP.Server,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
	})

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, cfg, col, lm, adv, rec, mailer)
	if err := sched.RegisterAll(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing advisory cycle now")
		go sched.RunNow()
	}

	log.Println("[INFO] FundAdvisor is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] FundAdvisor stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ChartStack/internal/config"
	"ChartStack/internal/dataset"
	"ChartStack/internal/flow"
	"ChartStack/internal/server"
	"ChartStack/internal/updater"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ChartStack starting...")

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

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

	// Init dataset catalog
	catalog := dataset.NewCatalog(cfg.Data.Dir, cfg.Data.DefaultDataset)
	if ids, err := catalog.IDs(); err != nil {
		log.Printf("[WARN] dataset catalog: %v", err)
	} else {
		log.Printf("[INFO] %d dataset(s) available", len(ids))
	}

	// Init flow store
	var store *flow.Store
	if cfg.Database.SQLitePath != "" {
		store, err = flow.NewStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init flow store failed, cvd disabled: %v", err)
		} else {
			defer store.Close()
		}
	}

	// Init API server
	var flows server.FlowSource
	if store != nil {
		flows = store
	}
	srv := server.NewServer(catalog, flows)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init updater when a remote source is configured
	if cfg.DataSource.BaseURL != "" {
		tickers, err := updater.LoadTickerMap(cfg.Data.TickerFile)
		if err != nil {
			log.Printf("[WARN] ticker map unavailable, updater disabled: %v", err)
		} else {
			up := &updater.Updater{
				Catalog:      catalog,
				Store:        store,
				Fetcher:      updater.NewRemoteFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy),
				Tickers:      tickers,
				FallbackDays: cfg.Update.FallbackDays,
				OnRefresh:    srv.Invalidate,
			}
			if err := up.RegisterCron(cfg.Update.Cron); err != nil {
				log.Fatalf("[FATAL] register update cron: %v", err)
			}
			up.Start()
			defer up.Stop()

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, refreshing datasets now")
				go up.UpdateAll()
			}
		}
	}

	// Serve until shutdown signal
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
	}()

	if err := srv.Start(ctx, cfg.Server.ListenAddr); err != nil {
		log.Fatalf("[FATAL] server: %v", err)
	}
	log.Println("[INFO] ChartStack stopped")
}

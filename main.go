// Package main provides the entry point for the section matcher service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"section-matcher/internal/app"
	"section-matcher/internal/config"
	"section-matcher/internal/logging"
	"section-matcher/internal/pipeline"
	"section-matcher/internal/server"
	"section-matcher/internal/version"
)

const appTitle = "Section Matcher"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLogger(logger)
	log.Printf("Starting %s %s", appTitle, version.String())

	analyzer, err := pipeline.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WatchCatalog {
		setupCatalogWatch(cfg, analyzer.State())
	}

	handler := server.NewHandler(analyzer, cfg.UploadDir, cfg.MaxUploadBytes(), logging.For("http"))
	srv := server.New(cfg.Addr, handler.Routes(), cfg.MaxConns, logging.For("server"))
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal(err)
	}
}

// setupCatalogWatch restarts the process when the catalog file changes.
func setupCatalogWatch(cfg *config.Config, state *app.State) {
	watcher := app.NewCatalogWatcher(cfg.CatalogPath, cfg.WatchInterval)
	if watcher == nil {
		log.Printf("Catalog watch: cannot stat %s, not watching", cfg.CatalogPath)
		return
	}
	log.Printf("Catalog watch: watching %s every %s", watcher.Path(), cfg.WatchInterval)

	state.On(app.EventCatalogChanged, func(data interface{}) {
		log.Printf("Catalog watch: %v changed, restarting...", data)
		if err := app.RestartProcess(); err != nil {
			log.Printf("Catalog watch: restart failed: %v", err)
		}
	})
	watcher.OnChange(func() {
		state.Emit(app.EventCatalogChanged, watcher.Path())
	})
	watcher.Start()
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedwerk/ics-split/app/api"
	"github.com/feedwerk/ics-split/app/cfg"
	"github.com/feedwerk/ics-split/app/config"
	"github.com/feedwerk/ics-split/app/database"
	"github.com/feedwerk/ics-split/app/feed"
	"github.com/feedwerk/ics-split/app/fetch"
	"github.com/feedwerk/ics-split/app/publisher"
	"github.com/feedwerk/ics-split/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment variables and command-line flags
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting ICS Split server (version: %s)...", appCfg.Version)

	// Run history database
	log.Println("Opening run history database...")
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %t)", version, dirty)

	runRepo := database.NewRunRepository(db)

	// Committee catalog and calendar profile
	log.Printf("Loading committee catalog from %s...", appCfg.CommitteesFile)
	catalog := config.NewCatalog(appCfg.CommitteesFile, appCfg.ProfileFile)
	if err := catalog.Load(); err != nil {
		log.Fatal("Failed to load committee catalog:", err)
	}
	log.Printf("Loaded %d committees", catalog.CommitteeCount())

	// Initialize core components
	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.SourceTimeout) * time.Second,
	}

	fetcher, err := fetch.NewFetcher(httpClient, appCfg.UserAgent, time.Duration(appCfg.SourceTimeout)*time.Second)
	if err != nil {
		log.Fatal("Failed to initialize fetcher:", err)
	}

	pipeline := feed.NewPipeline()
	pub := publisher.NewPublisher(appCfg.OutputDir)

	// Initialize and start scheduler
	log.Printf("Starting background scheduler with %d workers...", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(catalog, fetcher, pipeline, pub, runRepo)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(catalog, runRepo, scheduler, fetcher, pipeline, pub, appCfg.OutputDir, appCfg.SourceURL)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("Endpoints available:")
		log.Printf("  Index page:    http://localhost:%s/", appCfg.Port)
		log.Printf("  Calendars:     http://localhost:%s/calendars/<slug>.ics", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if appCfg.APIAccessKey != "" {
			log.Printf("  Committees:    http://localhost:%s/api/committees (requires API key)", appCfg.Port)
			log.Printf("  Runs:          http://localhost:%s/api/runs (requires API key)", appCfg.Port)
			log.Printf("  Rebuild:       http://localhost:%s/api/rebuild (POST, requires API key)", appCfg.Port)
		} else {
			log.Printf("  API endpoints: DISABLED (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("ICS Split server started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Background scheduler stopped")

	log.Println("ICS Split server shutdown complete")
}

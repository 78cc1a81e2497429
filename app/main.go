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

	"github.com/okhotnik/eventscope/app/api"
	"github.com/okhotnik/eventscope/app/cfg"
	"github.com/okhotnik/eventscope/app/database"
	"github.com/okhotnik/eventscope/app/importer"
	"github.com/okhotnik/eventscope/app/sources"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	log.Printf("Starting Eventscope server (version %s)...", appCfg.Version)

	// Database connection
	log.Printf("Opening database at %s...", appCfg.DBPath)
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %v)", version, dirty)

	// Source platform registry
	registry := sources.NewRegistry()
	if err := registry.LoadOverrides(appCfg.SourcesFile); err != nil {
		log.Fatal("Failed to load source overrides:", err)
	}

	// Initialize repositories
	eventRepo := database.NewEventRepository(db)
	venueRepo := database.NewVenueRepository(db)
	hostRepo := database.NewHostRepository(db)

	// Initialize the import pipeline
	httpClient := &http.Client{}
	imp := importer.NewImporter(db, eventRepo, venueRepo, hostRepo, httpClient, registry)

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(imp, eventRepo)
	server := api.NewServer(apiHandler)

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
		log.Printf("API endpoints available:")
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if appCfg.APIAccessKey != "" {
			log.Printf("  Scrape import: http://localhost:%s/api/imports/scrape (POST, requires API key)", appCfg.Port)
			log.Printf("  Text import:   http://localhost:%s/api/imports/text (POST, requires API key)", appCfg.Port)
			log.Printf("  Feed import:   http://localhost:%s/api/imports/feed (POST, requires API key)", appCfg.Port)
			log.Printf("  Commit:        http://localhost:%s/api/imports/commit (POST, requires API key)", appCfg.Port)
			log.Printf("  Events:        http://localhost:%s/api/events (requires API key)", appCfg.Port)
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

	log.Println("Eventscope server started successfully!")
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

	log.Println("Eventscope server shutdown complete")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finops-arcade/internal/api"
	"finops-arcade/internal/config"
	"finops-arcade/internal/data"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	srv, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	if srv.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if wd, err := os.Getwd(); err == nil {
		log.Printf("Working directory: %s", wd)
	}

	cfg, err := config.Load(srv.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config %q: %v", srv.ConfigPath, err)
	}
	if srv.ConfigPath != "" {
		log.Printf("Loaded config from %s", srv.ConfigPath)
	}

	catalog, err := data.Load(srv.DataDir)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}
	if srv.DataDir != "" {
		log.Printf("Content overlay: %s", srv.DataDir)
	}
	log.Printf("Content: %d bills, %d scenarios, %d personas", len(catalog.Bills), len(catalog.ScenarioIDs()), len(catalog.Personas))

	server, err := api.NewServer(api.Options{
		Catalog:     catalog,
		Config:      cfg,
		SessionTTL:  srv.SessionTTL,
		CORSOrigins: srv.CORSOrigins,
		StaticDir:   srv.StaticDir,
	})
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sessions idle for longer than SESSION_TTL are evicted.
	go server.Sweep(ctx, time.Minute)

	addr := fmt.Sprintf(":%s", srv.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on %s (env=%s, session ttl=%s)", addr, srv.Env, srv.SessionTTL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Server stopped")
}

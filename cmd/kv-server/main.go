package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/heysubinoy/jsonkv/internal/api"
	"github.com/heysubinoy/jsonkv/internal/store"
	"github.com/heysubinoy/jsonkv/pkg/config"
	"github.com/heysubinoy/jsonkv/pkg/kv"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build the configured backend
	var backend kv.Store
	switch cfg.Backend {
	case config.BackendBolt:
		boltStore, err := store.NewBoltStore(cfg.DataFile, 0600, "entries")
		if err != nil {
			log.Fatalf("Failed to open data file %s: %v", cfg.DataFile, err)
		}
		defer boltStore.Close()
		backend = boltStore
		log.Printf("Using bolt backend (%s)", cfg.DataFile)
	case config.BackendMemory:
		backend = store.NewMemStore()
		log.Printf("Using in-memory backend")
	}

	instrumented := store.NewInstrumentedStore(backend)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	srv := api.NewServer(instrumented)
	srv.RegisterRoutes(r)
	r.Get("/metrics", api.MetricsHandler(instrumented))

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// Block until interrupted, then drain in-flight requests so the
	// store file closes cleanly.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

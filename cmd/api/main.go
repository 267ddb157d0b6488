package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/clock"
	"github.com/Kyle-Pantig/catalog/internal/config"
	"github.com/Kyle-Pantig/catalog/internal/db"
	"github.com/Kyle-Pantig/catalog/internal/identity"
	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/Kyle-Pantig/catalog/internal/reaper"
	"github.com/Kyle-Pantig/catalog/internal/server"
	"github.com/Kyle-Pantig/catalog/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.Catalog{},
		&model.Item{},
		&model.ItemImage{},
		&model.ShareCode{},
	); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	provider, err := identity.NewFirebaseProvider(ctx, cfg.FirebaseProjectID, cfg.FirebaseAPIKey)
	if err != nil {
		log.Fatalf("identity provider init error: %v", err)
	}

	images, err := storage.NewGCSStore(ctx, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	clk := clock.New()
	srv := server.New(conn, provider, images, clk)

	interval := time.Duration(cfg.CleanupIntervalMinutes) * time.Minute
	go reaper.New(srv.Cleanup(), interval).Run(ctx)
	log.Printf("started periodic cleanup task (every %s)", interval)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	case <-ctx.Done():
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/auth"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/config"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/db"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/handlers"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/realtime"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	store, err := db.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Store:              store,
		Hub:                realtime.NewHub(),
		Sessions:           auth.NewManager(cfg.SessionSecret),
		OAuth:              auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL+"/auth/callback"),
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		SecureCookies:      strings.HasPrefix(cfg.BaseURL, "https://"),
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the comment event stream holds its response open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

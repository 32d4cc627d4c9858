package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/satriowb/syncpad/internal/config"
	httpHandler "github.com/satriowb/syncpad/internal/delivery/http"
	"github.com/satriowb/syncpad/internal/delivery/ws"
	"github.com/satriowb/syncpad/internal/middleware"
	"github.com/satriowb/syncpad/internal/presence"
	"github.com/satriowb/syncpad/internal/store"
	"github.com/satriowb/syncpad/internal/usecase"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	// Document store: SQLite when a path is configured, memory otherwise
	var docs store.DocumentStore
	if cfg.SQLitePath != "" {
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open document store: %v", err)
		}
		docs = sqliteStore
		log.Printf("Documents stored in %s", cfg.SQLitePath)
	} else {
		docs = store.NewMemoryStore()
		log.Println("Documents stored in memory")
	}
	defer docs.Close()

	// Presence registry: Redis when an address is configured, in-process
	// otherwise
	var registry presence.Registry
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cancel()
		registry = presence.NewRedisRegistry(rdb)
		log.Printf("Presence backed by Redis at %s", cfg.RedisAddr)
	} else {
		registry = presence.NewMemoryRegistry()
	}

	// Initialize dependencies
	identities := usecase.NewIdentityGenerator()
	sessions := ws.NewSessionStore(identities)
	cast := ws.NewBroadcaster(registry)
	coord := ws.NewCoordinator(sessions, registry, docs, cast)
	handler := httpHandler.NewHandler(docs, coord, cast, sessions, registry)

	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, 20)
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, 10)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handler.HandleHealth)
	mux.HandleFunc("POST /documents", middleware.RateLimitFunc(apiLimiter, handler.HandleCreateDocument))
	mux.HandleFunc("GET /documents/{id}", middleware.RateLimitFunc(apiLimiter, handler.HandleGetDocument))
	mux.HandleFunc("PUT /documents/{id}", middleware.RateLimitFunc(apiLimiter, handler.HandleUpdateDocument))
	mux.HandleFunc("GET /ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket))

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("syncpad running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

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

	"github.com/mahendraputra/bisik/internal/chat"
	"github.com/mahendraputra/bisik/internal/config"
	httpHandler "github.com/mahendraputra/bisik/internal/delivery/http"
	"github.com/mahendraputra/bisik/internal/delivery/ws"
	"github.com/mahendraputra/bisik/internal/middleware"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()

	port := config.AppConfig.Port

	// Configuring Logging
	if config.AppConfig.LogLevel == "silent" || config.AppConfig.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	// Initialize dependencies
	service := chat.NewService()
	hub := ws.NewHub(service)
	go hub.Run()
	handler := httpHandler.NewHandler(hub)

	// Rate limiters pick up the configured rates
	apiLimiter := middleware.NewIPRateLimiter(config.AppConfig.RateLimitAPI, middleware.APIBurst)
	wsLimiter := middleware.NewIPRateLimiter(config.AppConfig.RateLimitWS, middleware.WebSocketBurst)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", middleware.RateLimitFunc(apiLimiter, handler.HandleHealth))

	// WebSocket route with rate limiting on the upgrade
	mux.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket))

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("bisik chat running at http://localhost:%s", port)
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

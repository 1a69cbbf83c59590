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

	"github.com/joho/godotenv"

	"vanity_gateway/internal/config"
	"vanity_gateway/internal/httpapi"
	"vanity_gateway/internal/metrics"
	"vanity_gateway/internal/providers"
	"vanity_gateway/internal/registry"
	"vanity_gateway/internal/secrets"
	"vanity_gateway/internal/telemetry"
)

func main() {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The caller key is read once at startup. Provider keys are resolved
	// per request by the secrets store.
	rawKey, err := os.ReadFile(cfg.Auth.KeyPath)
	if err != nil {
		log.Fatalf("Failed to read gateway key: %v", err)
	}
	gatewayKey := strings.TrimSpace(string(rawKey))
	if gatewayKey == "" {
		log.Fatalf("Gateway key file %s is empty", cfg.Auth.KeyPath)
	}

	reg, err := registry.NewStore(cfg.Registry.Path)
	if err != nil {
		log.Fatalf("Failed to load provider registry: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Registry.Watch {
		go func() {
			if err := reg.Watch(ctx); err != nil {
				log.Printf("Registry watch stopped: %v", err)
			}
		}()
	}

	if cfg.Telemetry.TracesEnabled {
		shutdown, err := telemetry.InitTracer(cfg.Telemetry)
		if err != nil {
			log.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer shutdown()
	}

	deps := httpapi.NewDependencies(
		gatewayKey,
		reg,
		secrets.NewStore(cfg.Secrets.Dir),
		providers.NewFactory(cfg.Upstream.Timeout),
		metrics.New(),
	)

	addr := ":" + cfg.HTTPPort
	server := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewRouter(deps, cfg.Telemetry.MetricsEnabled),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Upstream.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLS.CertFile != "" {
			log.Printf("Gateway listening on %s (TLS)", addr)
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			log.Printf("Gateway listening on %s", addr)
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

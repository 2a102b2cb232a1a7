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

	"github.com/joho/godotenv"
	"github.com/loanlead-api/internal/application/verification"
	"github.com/loanlead-api/internal/config"
	jwtinfra "github.com/loanlead-api/internal/infrastructure/jwt"
	"github.com/loanlead-api/internal/pkg/outbound"
	transporthttp "github.com/loanlead-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("code store: %v", err)
	}

	hc := outbound.New(cfg.ProviderTimeout, cfg.ProviderMaxRPS)
	channels, sessions, err := buildMobileChannels(ctx, cfg, hc)
	if err != nil {
		log.Fatalf("mobile channels: %v", err)
	}
	mobile := verification.NewMobileDispatcher(cfg.ProviderTimeout, channels...)
	email := buildEmailDispatcher(cfg, hc)
	log.Printf("mobile channels: %v; email channel: %s", mobile.Channels(), email.Name())

	// Receipts are optional; verification still works without keys.
	var receiptProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		receiptProvider = p
	} else {
		log.Printf("WARN: verification receipts disabled: %v", err)
	}

	deps := verification.ServiceDeps{
		Store:           store,
		Mobile:          mobile,
		Email:           email,
		TTL:             cfg.VerificationTTL,
		CodeLength:      cfg.CodeLength,
		ProviderTimeout: cfg.ProviderTimeout,
		Sessions:        sessions,
	}
	if receiptProvider != nil {
		deps.Receipts = receiptProvider
	}
	svc := verification.NewService(deps)

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Verification:    svc,
		ReceiptProvider: receiptProvider,
		MobileChannels:  mobile.Channels(),
		EmailChannel:    email.Name(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

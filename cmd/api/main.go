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
	"github.com/phone-otp-api/internal/application/verification"
	"github.com/phone-otp-api/internal/config"
	"github.com/phone-otp-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/phone-otp-api/internal/infrastructure/jwt"
	"github.com/phone-otp-api/internal/infrastructure/memory"
	"github.com/phone-otp-api/internal/infrastructure/sns"
	transporthttp "github.com/phone-otp-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// OTP record store. The memory driver is for local development only.
	var store verification.Store
	switch cfg.StoreDriver {
	case "memory":
		store = memory.NewStore(cfg.OTP)
	default:
		dynamoClient := dynamo.NewClient(cfg)
		dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)
		store = dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPCodes, cfg.OTP)
	}

	// SMS delivery. Absent transport config selects the log-only stand-in.
	var smsSender sns.SMSSender
	if cfg.SMSEnabled {
		sender, err := sns.NewSender(cfg)
		if err != nil {
			log.Fatalf("SNS sender unavailable with SNS_SMS_ENABLED set: %v", err)
		}
		smsSender = sender
	} else {
		log.Println("WARN: SMS disabled, codes are not delivered")
		smsSender = sns.NewLogSender()
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// The debug code echo needs the explicit flag AND a non-production env
	// AND the log-only transport. Any real delivery path disables it.
	exposeOTP := cfg.DebugExposeOTP && !cfg.IsProduction() && !cfg.SMSEnabled
	if cfg.DebugExposeOTP && !exposeOTP {
		log.Println("WARN: OTP_DEBUG_RESPONSE ignored (production env or real SMS transport)")
	}

	deps := &transporthttp.Deps{
		OTPStore:    store,
		SMSSender:   smsSender,
		JWTProvider: jwtProvider,
		ExposeOTP:   exposeOTP,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aiops/fraud-wizard/internal/application"
	"github.com/aiops/fraud-wizard/internal/application/analysis"
	"github.com/aiops/fraud-wizard/internal/config"
	"github.com/aiops/fraud-wizard/internal/domain/fraud"
	aiclient "github.com/aiops/fraud-wizard/internal/infra/ai/openai"
	mysqldb "github.com/aiops/fraud-wizard/internal/infra/db/mysql"
	"github.com/aiops/fraud-wizard/internal/infra/db/postgres"
	"github.com/aiops/fraud-wizard/internal/infra/httpserver"
	minioStore "github.com/aiops/fraud-wizard/internal/infra/storage"
	"github.com/aiops/fraud-wizard/internal/middleware"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// Fraud log store is an optional dependency: connect failure means the
	// service runs without persistence, it does not refuse to start.
	var db *sql.DB
	var logs fraud.LogRepository
	var dbCheck middleware.HealthChecker
	if cfg.Database.URL != "" {
		db, err = connectStore(ctx, cfg)
		if err != nil {
			log.Printf("fraud log store unavailable, running without persistence: %v", err)
		} else {
			defer db.Close()
			dbCheck = &middleware.DatabaseHealthChecker{DB: db}
			switch cfg.Database.Driver {
			case "mysql":
				logs = mysqldb.NewFraudLogRepository(db)
			default:
				logs = postgres.NewFraudLogRepository(db)
			}
		}
	}

	// Explanation provider only when a credential is configured; otherwise
	// every analysis uses the deterministic fallback.
	var explainer fraud.Explainer
	if cfg.OpenAI.APIKey != "" {
		explainer = aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	} else {
		log.Printf("no OpenAI credential configured, explanations use the deterministic fallback")
	}

	// Envelope archive only when object storage is configured.
	var archive fraud.EnvelopeArchive
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Printf("envelope archive unavailable: %v", err)
		} else {
			archive = store
		}
	}

	svc := &analysis.Service{
		Explainer: explainer,
		Logs:      logs,
		Archive:   archive,
		Metrics:   middleware.Recorder{},
		Clock:     application.SystemClock{},
	}

	handler := httpserver.NewRouter(svc, dbCheck, httpserver.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RateLimitCapacity: cfg.RateLimit.Capacity,
		RateLimitPerSec:   cfg.RateLimit.PerSec,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func connectStore(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		return mysqldb.Connect(ctx, cfg.Database.URL)
	case "postgres", "":
		return postgres.Connect(ctx, cfg.Database.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"website-audit/internal/api"
	"website-audit/internal/common/aws"
	"website-audit/internal/common/config"
	"website-audit/internal/common/database"
	"website-audit/internal/common/logger"
	"website-audit/internal/common/observability"
	"website-audit/internal/services/analyze"
	"website-audit/internal/services/leadcapture"
	"website-audit/internal/services/payment"
	"website-audit/internal/services/report"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting audit server...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New("audit-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var db *sql.DB
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return database.Ping(ctx, db)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer db.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return database.PingRedis(ctx, redisClient)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Services ---
	analyzeService := analyze.NewServiceWithClients(
		analyze.ServiceDependencies{Logger: log},
		analyze.FromAppConfig(cfg),
		redisClient,
	)

	paymentService := payment.NewServiceWithClient(
		payment.ServiceDependencies{Logger: log},
		payment.FromAppConfig(cfg),
	)

	leadService := leadcapture.NewService(
		leadcapture.ServiceDependencies{Logger: log},
		leadcapture.FromAppConfig(cfg),
		db,
	)

	// Team notification clients are optional; the lead pipeline works
	// without them.
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		sesClient, sesErr := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		snsClient, snsErr := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if sesErr != nil || snsErr != nil {
			zapLog.Warn("AWS notification clients unavailable",
				zap.NamedError("ses", sesErr),
				zap.NamedError("sns", snsErr),
			)
		} else {
			leadService = leadService.WithNotifiers(sesClient, snsClient)
		}
	}

	reportService := report.NewServiceWithClient(
		report.ServiceDependencies{Logger: log},
		report.FromAppConfig(cfg),
		redisClient,
	)

	zapLog.Info("All services initialized")

	// --- HTTP Server ---
	handlers := api.NewHandlers(log, obs, analyzeService, paymentService, leadService, reportService)
	router := api.NewRouter(log, handlers, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Audit server stopped gracefully")
}

// cmd/decision-server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"decision-core/internal/alerts"
	"decision-core/internal/common/cache"
	"decision-core/internal/common/config"
	"decision-core/internal/common/database"
	"decision-core/internal/common/logger"
	"decision-core/internal/common/observability"
	"decision-core/internal/engine"
	"decision-core/internal/governance/audit"
	"decision-core/internal/governance/trace"
	"decision-core/internal/ingestion"
	"decision-core/internal/leads"
	"decision-core/internal/learning"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting decision server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Select cache backend ---
	var store cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		store = cache.NewRedis(redisClient.GetClient(), cfg.Cache.KeyPrefix, log)
		zapLog.Info("Redis cache backend connected successfully")
	default:
		store = cache.NewMemory()
		zapLog.Info("In-memory cache backend selected")
	}

	// --- Wire services ---
	auditSvc := audit.NewService(pg.GetDB(), store,
		time.Duration(cfg.Cache.AuditTTLSec)*time.Second, log)
	snapshots := trace.NewStore(pg.GetDB(), cfg.Governance.ReviewThreshold, log)
	feedback := learning.NewService(pg.GetDB(), store, cfg.Governance.BiasThreshold, log)
	leadStore := leads.NewPostgresStore(pg.GetDB(), store,
		time.Duration(cfg.Cache.LeadsTTLSec)*time.Second, log)
	registry := ingestion.NewRegistry()

	eng := engine.New(engine.Deps{
		LeadStore: leadStore,
		Ingestion: registry,
		Snapshots: snapshots,
		Audit:     auditSvc,
		Feedback:  feedback,
		Cache:     store,
		Obs:       obs,
		AlertConfig: alerts.Config{
			CompletenessThreshold: cfg.Alerts.CompletenessThreshold,
			StalenessMinutes:      cfg.Alerts.StalenessMinutes,
			ConfidenceFloor:       cfg.Alerts.ConfidenceFloor,
		},
		ModelVersion: cfg.Governance.ModelVersion,
		Logger:       log,
	})
	zapLog.Info("Decision engine wired successfully")

	// --- Periodic Alert Sweep ---
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				fired, err := eng.EvaluateAlerts(sweepCtx)
				if err != nil {
					zapLog.Error("alert sweep failed", zap.Error(err))
					continue
				}
				if len(fired) > 0 {
					zapLog.Warn("alert sweep fired alerts", zap.Int("count", len(fired)))
				}
			}
		}
	}()

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := pg.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.Server.MetricsAddr))
		if err := http.ListenAndServe(cfg.Server.MetricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping decision server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = shutdownCtx

	zapLog.Info("Decision server stopped")
}

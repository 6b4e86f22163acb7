package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"golang.org/x/time/rate"

	"energy-cost-backend/config"
	"energy-cost-backend/internal/api"
	"energy-cost-backend/internal/appliance"
	"energy-cost-backend/internal/logging"
	"energy-cost-backend/internal/mw"
	"energy-cost-backend/internal/notification"
	"energy-cost-backend/internal/store"
)

const defaultConfigPath = "./config/config.yaml"

func loadConfig() (*config.Config, string, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return config.Default(), "", nil
		}
		configPath = defaultConfigPath // Default path for local development
	}
	cfg, err := config.Load(configPath)
	return cfg, configPath, err
}

func fatal(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

func main() {
	cfg, configPath, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "path", configPath, "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)
	if configPath == "" {
		logger.Info("no configuration file found, using defaults")
	} else {
		logger.Info("configuration loaded", "path", configPath)
	}

	policy, ok := appliance.ParseUpdatePolicy(cfg.Registry.UpdatePolicy)
	if !ok {
		fatal(logger, "invalid update policy", "policy", cfg.Registry.UpdatePolicy)
	}

	// Initialize storage
	kv, err := store.Open(&cfg.Storage)
	if err != nil {
		fatal(logger, "failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer kv.Close()
	logger.Info("storage initialized", "driver", cfg.Storage.Driver)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := appliance.NewRegistry(store.NewApplianceRecords(kv),
		appliance.WithUpdatePolicy(policy),
		appliance.WithLogger(logger.With("component", "registry")),
	)
	if err := registry.Restore(ctx); err != nil {
		fatal(logger, "failed to restore appliances", "error", err)
	}
	if cfg.Registry.SeedExamples {
		if _, err := registry.SeedDefaults(ctx); err != nil {
			logger.Error("failed to persist example appliances", "error", err)
		}
	}

	var webpushOptions *webpush.Options
	gormDB := store.DB(kv)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	}

	// Budget alerts need both push keys and a database for subscriptions.
	switch {
	case webpushOptions == nil:
		logger.Info("VAPID keys not configured, budget alerts disabled")
	case gormDB == nil:
		logger.Warn("budget alerts need a database storage driver", "driver", cfg.Storage.Driver)
	default:
		workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions, logger.With("component", "notification"))
		workerPool.Start(ctx)

		watcher := notification.NewBudgetWatcher(cfg.Alerts.MonthlyBudget, cfg.Alerts.CheckInterval, registry, workerPool, logger.With("component", "budget"))
		go watcher.Run(ctx)
	}

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	go pruneVisitors(ctx, limiter, logger)

	// Initialize router
	handler := api.NewHandler(registry, store.NewPreferences(kv), gormDB, webpushOptions, logger.With("component", "api"))
	router := api.NewRouter(handler, limiter, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting", "port", cfg.Server.Port, "appliances", registry.Len())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "HTTP server ListenAndServe", "error", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", "error", err)
	}

	logger.Info("server gracefully stopped")
}

// pruneVisitors drops rate limiter state for idle clients.
func pruneVisitors(ctx context.Context, limiter *mw.IPRateLimiter, logger *slog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(30 * time.Minute); n > 0 {
				logger.Debug("pruned idle rate limiters", "count", n)
			}
		}
	}
}

// cmd/storefront/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/access"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
	"github.com/your-org/artiflora-storefront/internal/domain/checkout"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
	"github.com/your-org/artiflora-storefront/internal/domain/media"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/domain/payment"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/api"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/firebase"
	httpserver "github.com/your-org/artiflora-storefront/internal/interfaces/http"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/routes"
	"github.com/your-org/artiflora-storefront/internal/pkg/auth"
	"github.com/your-org/artiflora-storefront/internal/pkg/logger"
	"github.com/your-org/artiflora-storefront/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	outbound := &http.Client{Timeout: cfg.API.Timeout}

	// Remote services
	apiClient := api.NewClient(cfg, log)
	identityProvider := firebase.NewClient(cfg, outbound, log)

	// Domain services
	catalogService := catalog.NewService(apiClient, log)
	orderService := order.NewService(apiClient, catalogService, log)
	cartService := cart.NewService(redis.CartStorageFactory(redisClient, cfg.Identity.RememberTTL), catalogService, log)
	identities := identity.NewManager(identityProvider, redis.NewSessionStore(redisClient), cfg, log)
	accessRegistry := access.NewRegistry(access.NewChecker(apiClient, log))
	defer accessRegistry.Close()

	scriptLoader := payment.NewScriptLoader(cfg.Razorpay.ScriptURL, outbound, log)
	checkouts := checkout.NewRegistry(scriptLoader, apiClient.Gateway(), orderService, cfg, log)
	uploader := media.NewUploader(apiClient, cfg, outbound, log)

	deps := &routes.Dependencies{
		Logger:    log,
		Sessions:  middleware.NewSessions(auth.NewJWTManager(cfg), identities, cfg, log),
		Access:    accessRegistry,
		Catalog:   catalogService,
		Cart:      cartService,
		Orders:    orderService,
		Checkouts: checkouts,
		Uploader:  uploader,
		PDF:       pdf.NewService(cfg),
	}

	server := httpserver.NewServer(cfg, deps, redisClient, apiClient, log)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Forget per-browser state that has been idle for a while
	sweepCtx, stopSweeping := context.WithCancel(context.Background())
	go sweep(sweepCtx, cfg.Identity.IdleTimeout, log, identities, accessRegistry, checkouts)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")
	stopSweeping()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}

type sweeper interface {
	Sweep(idle time.Duration) int
}

func sweep(ctx context.Context, idle time.Duration, log *logrus.Logger, registries ...sweeper) {
	if idle <= 0 {
		return
	}

	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, registry := range registries {
				removed += registry.Sweep(idle)
			}
			if removed > 0 {
				log.WithField("removed", removed).Debug("Swept idle sessions")
			}
		}
	}
}

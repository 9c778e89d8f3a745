package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/config"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/events"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/server"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/monitoring"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/persistence/postgres"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/persistence/redis"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/scheduler"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Silent Auction Service")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	db, dbErr := postgres.NewConnection(cfg.Database)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", "error", dbErr)
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database); migrationErr != nil {
		log.Fatal("Failed to run migrations", "error", migrationErr)
	}

	redisClient, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisClient.Close()

	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		natsPublisher, natsErr := events.NewNATSPublisher(cfg.NATS, log)
		if natsErr != nil {
			log.Fatal("Failed to connect to NATS", "error", natsErr)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		publisher = events.NewNoopPublisher()
	}

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	repo := postgres.NewAuctionRepository(db)
	cache := redis.NewCache(redisClient, log)
	reconciler := scheduler.NewCacheReconciler(repo, cache, log.WithField("component", "cache_reconciler"), 5*time.Minute)

	httpServer := server.NewServer(cfg, db.GetDB(), redisClient, publisher, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	go reconciler.Start(serverCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		reconciler.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}

		serverStopCtx()
	}()

	log.Info("Server starting", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}

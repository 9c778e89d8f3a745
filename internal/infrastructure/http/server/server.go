package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/okhomin/silent-auction-service/internal/application/commands"
	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/application/use_cases"
	"github.com/okhomin/silent-auction-service/internal/config"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/handlers"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/middleware"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/notification"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/persistence/postgres"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/persistence/redis"
	"github.com/okhomin/silent-auction-service/internal/pkg/clock"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

type Server struct {
	server           *http.Server
	logger           *logger.Logger
	auth             *middleware.Authenticator
	healthHandler    *handlers.HealthHandler
	catalogHandler   *handlers.CatalogHandler
	bidHandler       *handlers.BidHandler
	lifecycleHandler *handlers.LifecycleHandler
	adminHandler     *handlers.AdminHandler
}

func NewServer(cfg *config.Config, db *sql.DB, redisConn *redis.Connection, publisher ports.EventPublisher, log *logger.Logger) *Server {
	conn := postgres.NewConnectionFromDB(db)
	repo := postgres.NewAuctionRepository(conn)
	cache := redis.NewCache(redisConn, log)

	clk := clock.NewRealClock()
	notifier := notification.NewLogNotifier(log)

	placeBidUseCase := use_cases.NewPlaceBidUseCase(repo, cache, publisher, clk, log)
	lifecycleUseCase := use_cases.NewLifecycleUseCase(repo, cache, notifier, publisher, clk, log)
	catalogUseCase := use_cases.NewCatalogUseCase(repo, log)
	itemAdminUseCase := use_cases.NewItemAdminUseCase(repo, cache, clk, log)

	placeBidHandler := commands.NewPlaceBidHandler(placeBidUseCase, log)
	closeHandler := commands.NewCloseAuctionHandler(lifecycleUseCase, log)

	natsStatus := func() string { return "DISABLED" }
	if reporter, ok := publisher.(interface{ Status() string }); ok {
		natsStatus = reporter.Status
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:           server,
		logger:           log,
		auth:             middleware.NewAuthenticator(cfg.Auth.JWTSecret),
		healthHandler:    handlers.NewHealthHandler(db, redisConn.GetClient(), natsStatus, log),
		catalogHandler:   handlers.NewCatalogHandler(catalogUseCase, log),
		bidHandler:       handlers.NewBidHandler(placeBidHandler, log),
		lifecycleHandler: handlers.NewLifecycleHandler(closeHandler, lifecycleUseCase, log),
		adminHandler:     handlers.NewAdminHandler(itemAdminUseCase, catalogUseCase, log),
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

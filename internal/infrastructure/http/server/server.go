package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/storekit/cart-service/internal/application/commands"
	"github.com/storekit/cart-service/internal/config"
	"github.com/storekit/cart-service/internal/domain/cart"
	"github.com/storekit/cart-service/internal/infrastructure/bloom"
	"github.com/storekit/cart-service/internal/infrastructure/http/handlers"
	"github.com/storekit/cart-service/internal/infrastructure/persistence/postgres"
	"github.com/storekit/cart-service/internal/infrastructure/persistence/redis"
	"github.com/storekit/cart-service/internal/pkg/clock"
	"github.com/storekit/cart-service/internal/pkg/logger"
)

type Server struct {
	server        *http.Server
	logger        *logger.Logger
	healthHandler *handlers.HealthHandler
	cartHandler   *handlers.CartHandler
}

func NewServer(
	cfg *config.Config,
	conn *postgres.Connection,
	redisConn *redis.Connection,
	productFilter *bloom.ProductFilter,
	log *logger.Logger,
) *Server {
	catalogRepo := postgres.NewCatalogRepository(conn)
	cartStore := redis.NewCartStore(redisConn, log, cfg.Cart.SessionTTL())

	mutations := commands.NewCartMutationHandler(
		cartStore,
		catalogRepo,
		productFilter,
		&cart.Hooks{},
		nil,
		nil,
		log,
		clock.NewRealClock(),
		commands.CartMutationConfig{
			Currency:    cfg.Cart.Currency,
			LockTTL:     cfg.Cart.LockTTL(),
			LockRetries: cfg.Cart.LockRetries,
		},
	)

	cartHandler := handlers.NewCartHandler(mutations, log)
	healthHandler := handlers.NewHealthHandler(conn.GetDB(), redisConn.GetClient(), log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        log,
		healthHandler: healthHandler,
		cartHandler:   cartHandler,
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

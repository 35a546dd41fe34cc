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

	"github.com/storekit/cart-service/internal/config"
	"github.com/storekit/cart-service/internal/infrastructure/bloom"
	"github.com/storekit/cart-service/internal/infrastructure/http/server"
	"github.com/storekit/cart-service/internal/infrastructure/monitoring"
	"github.com/storekit/cart-service/internal/infrastructure/persistence/postgres"
	"github.com/storekit/cart-service/internal/infrastructure/persistence/redis"
	"github.com/storekit/cart-service/internal/infrastructure/scheduler"
	"github.com/storekit/cart-service/internal/pkg/logger"
)

const (
	expectedCatalogSize   = 100000
	bloomFalsePositivePct = 0.01
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Cart Service")

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

	redisConn, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	productFilter := bloom.NewProductFilter(redisConn.GetClient(), expectedCatalogSize, bloomFalsePositivePct)

	catalogRepo := postgres.NewCatalogRepository(db)
	bloomRefresher := scheduler.NewBloomRefresher(catalogRepo, productFilter, log, cfg.Cart.BloomRefreshInterval())

	httpServer := server.NewServer(cfg, db, redisConn, productFilter, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	go bloomRefresher.Start(serverCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, shutdownCancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer shutdownCancel()

		log.Info("Shutting down server...")
		bloomRefresher.Stop()
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

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	httptransport "storefront-be/internal/http"
	"storefront-be/internal/logger"
	"storefront-be/internal/media"
	"storefront-be/internal/order"
	"storefront-be/internal/product"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	if err := db.RunMigrations(database, "./migrations"); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	router, orderRepo := buildRouter(cfg, database, redisClient)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := order.NewOutboxPoller(orderRepo, cfg.KafkaBrokers...)
	go poller.Run(ctx)

	go func() {
		log.Info("server running", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

// buildRouter wires repositories and services onto the REST router. The order
// repository is returned separately so main can hand it to the outbox poller.
func buildRouter(cfg *config.Config, database *sql.DB, redisClient *redis.Client) (http.Handler, order.Repository) {
	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartSvc := cart.NewService(cart.NewRedisStore(redisClient), productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartSvc, productRepo, nil)

	mediaSvc := media.NewService(
		media.NewRedisTokenStore(redisClient),
		cfg.MediaEndpoint,
		cfg.MediaPublicURL,
	)

	return httptransport.NewRouter(cfg, productSvc, cartSvc, orderSvc, mediaSvc), orderRepo
}

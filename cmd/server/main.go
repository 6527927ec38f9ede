package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/commons"
	"storefront/internal/config"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/mysql"
	redisinfra "storefront/internal/infrastructure/redis"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/server"
)

// loadConfig reads a yaml file when CONFIG_FILE is set, otherwise
// falls back to environment variables with defaults.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	rdb, err := redisinfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	defer rdb.Close()
	zapLogger.Info("redis connected")

	cartStore := cart.NewStore(rdb)
	cartCtrl := cart.NewController(cartStore, zapLogger)

	productModule := product.NewModule(db, zapLogger)
	orderCtrl := order.NewModule(db, productModule.Inventory, cartStore, cfg, zapLogger)

	authMW := auth.NewMiddleware(cfg.Auth)

	router := server.NewRouter(productModule.Controller, orderCtrl, cartCtrl, authMW, db, rdb, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

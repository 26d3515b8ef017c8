package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amezzane/shopfront-gateway/config"
	"github.com/amezzane/shopfront-gateway/internal/app/controller"
	"github.com/amezzane/shopfront-gateway/internal/app/service"
	"github.com/amezzane/shopfront-gateway/internal/router"
	"github.com/amezzane/shopfront-gateway/internal/scheduler"
	"github.com/amezzane/shopfront-gateway/internal/storage"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/amezzane/shopfront-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting shopfront gateway", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"commerce":    cfg.Commerce.BaseURL,
	})

	// Cart persistence: Redis when configured, in-process memory otherwise
	var kv storage.KV
	if cfg.Redis.Enabled {
		redisKV, err := storage.NewRedisKV(storage.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := redisKV.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		kv = redisKV
	} else {
		logger.Warn("Redis disabled, carts will not survive restarts", nil)
		kv = storage.NewMemoryKV()
	}

	// Commerce platform client
	commerceClient, err := commerce.NewClient(commerce.Config{
		BaseURL:      cfg.Commerce.BaseURL,
		ServiceToken: cfg.Commerce.ServiceToken,
		Timeout:      cfg.Commerce.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create commerce client", err)
	}

	// Initialize services
	stockCache := service.NewStockCache(cfg.Cart.StockTTL)
	catalogService := service.NewCatalogService(commerceClient, stockCache)
	cartService := service.NewCartService(kv, catalogService)
	orderService := service.NewOrderService(commerceClient, cartService)
	reportService := service.NewReportService(commerceClient)

	// Initialize controllers
	productController := controller.NewProductController(catalogService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	sellerController := controller.NewSellerController(catalogService, reportService)

	// Background stock snapshot refresh
	stockScheduler := scheduler.NewStockRefreshScheduler(cartService, catalogService, cfg.Cart.RefreshCron)
	if err := stockScheduler.Start(); err != nil {
		logger.Warn("Stock refresh scheduler not running", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer stockScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		orderController,
		sellerController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/osikani/kente-storefront-api/internal/cart"
	"github.com/osikani/kente-storefront-api/internal/checkout"
	"github.com/osikani/kente-storefront-api/internal/config"
	"github.com/osikani/kente-storefront-api/internal/handler"
	"github.com/osikani/kente-storefront-api/internal/insights"
	"github.com/osikani/kente-storefront-api/internal/middleware"
	"github.com/osikani/kente-storefront-api/internal/payment"
	"github.com/osikani/kente-storefront-api/internal/repository"
	"github.com/osikani/kente-storefront-api/internal/service"
	"github.com/osikani/kente-storefront-api/internal/storage"
	"github.com/osikani/kente-storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Domain
	carts := cart.NewStore()
	gateway := payment.NewPaystackClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, cfg.Paystack.Timeout)
	orchestrator := checkout.NewOrchestrator(carts, orderRepo, gateway, amqpCh, cfg.Checkout.GatewayTTL, log)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(productRepo, redisClient)
	orderSvc := service.NewOrderService(orderRepo)
	insightsSvc := insights.NewService(cfg.Insights.BaseURL, cfg.Insights.APIKey, cfg.Insights.Timeout, redisClient, cfg.Insights.CacheTTL)
	uploader := storage.NewHTTPBucket(cfg.Storage.UploadURL, cfg.Storage.PublicURL)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc, uploader)
	cartH := handler.NewCartHandler(carts, productSvc)
	checkoutH := handler.NewCheckoutHandler(orchestrator)
	orderH := handler.NewOrderHandler(orderSvc)
	insightsH := handler.NewInsightsHandler(insightsSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	notifyWorker := worker.NewNotifyWorker(amqpCh, orderRepo, userRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		account := v1.Group("/account", middleware.AuthMiddleware(cfg.JWT.Secret))
		account.GET("", authH.Profile)
		account.PUT("", authH.UpdateProfile)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.GetByID)

		v1.GET("/insights/:pattern", insightsH.GetPatternInsight)

		cartGroup := v1.Group("/cart", middleware.AuthMiddleware(cfg.JWT.Secret))
		cartGroup.GET("", cartH.GetCart)
		cartGroup.POST("/items", cartH.AddItem)
		cartGroup.PUT("/items/:productId", cartH.SetQuantity)
		cartGroup.DELETE("/items/:productId", cartH.RemoveItem)
		cartGroup.DELETE("", cartH.Clear)

		wishlist := v1.Group("/wishlist", middleware.AuthMiddleware(cfg.JWT.Secret))
		wishlist.GET("", cartH.GetWishlist)
		wishlist.POST("/toggle", cartH.ToggleWishlist)

		checkoutGroup := v1.Group("/checkout", middleware.AuthMiddleware(cfg.JWT.Secret))
		checkoutGroup.POST("", checkoutH.Checkout)
		checkoutGroup.POST("/confirm", checkoutH.ConfirmGateway)
		checkoutGroup.POST("/cancel", checkoutH.CancelGateway)

		orders := v1.Group("/orders", middleware.AuthMiddleware(cfg.JWT.Secret))
		orders.GET("", orderH.ListMine)
		orders.GET("/:id", orderH.GetByID)

		admin := v1.Group("/admin", middleware.AuthMiddleware(cfg.JWT.Secret), middleware.AdminOnly())
		admin.POST("/products", productH.Create)
		admin.PUT("/products/:id", productH.Update)
		admin.DELETE("/products/:id", productH.Delete)
		admin.POST("/products/images", productH.UploadImage)
		admin.GET("/orders", orderH.ListAll)
		admin.PUT("/orders/:id/status", orderH.UpdateStatus)
		admin.DELETE("/orders/:id", orderH.Delete)
	}

	if err := notifyWorker.Start(ctx); err != nil {
		log.Error("start notify worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	notifyWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}

// File: glowbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowbook/config"
	"glowbook/cron"
	"glowbook/database"
	blockedRepoPkg "glowbook/database/repository/blocked"
	bookingRepoPkg "glowbook/database/repository/booking"
	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/routes"
	"glowbook/services/booking"
	"glowbook/services/notification"
	"glowbook/services/payment"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	blockedRepo := blockedRepoPkg.NewMongoBlockedRepo()
	if err := bookingRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := blockedRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create blocked indexes: %v", err)
	}

	// task queue client (emails + delayed reconcile sweeps).
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// services.
	gateway := payment.NewStripeGateway(
		config.AppConfig.CheckoutSuccessURL,
		config.AppConfig.CheckoutCancelURL,
	)

	notificationService := &notification.DefaultNotificationService{
		Queue:      queueClient,
		AdminEmail: config.AppConfig.AdminEmail,
	}

	availabilityEngine := &booking.DefaultAvailabilityEngine{
		BookingRepo: bookingRepo,
		BlockedRepo: blockedRepo,
		OpenMinute:  config.AppConfig.BusinessOpenHour * 60,
		CloseMinute: config.AppConfig.BusinessCloseHour * 60,
		Interval:    config.AppConfig.SlotIntervalMinutes,
	}

	issuer := &booking.DefaultPaymentIntentIssuer{
		Repo:         bookingRepo,
		Gateway:      gateway,
		Availability: availabilityEngine,
		Queue:        queueClient,
		Currency:     config.AppConfig.Currency,
		Logger:       logger,
	}

	reconciliationEngine := &booking.DefaultReconciliationEngine{
		Repo:     bookingRepo,
		Gateway:  gateway,
		Locker:   utils.NewRedisLocker(utils.GetLockClient(), utils.ReconcileLockTTL),
		Notifier: notificationService,
		Logger:   logger,
	}

	mailer := &notification.SMTPMailer{
		Host: config.AppConfig.SMTPHost,
		Port: config.AppConfig.SMTPPort,
		User: config.AppConfig.SMTPUser,
		Pass: config.AppConfig.SMTPPass,
		From: config.AppConfig.EmailFrom,
	}
	cron.InitWorker(reconciliationEngine, mailer)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Payment: handlers.NewPaymentHandler(
			issuer,
			reconciliationEngine,
			config.AppConfig.StripeWebhookSecret,
			logger,
		),
		Availability: handlers.NewAvailabilityHandler(availabilityEngine),
		Admin:        handlers.NewAdminHandler(blockedRepo, bookingRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetLockClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

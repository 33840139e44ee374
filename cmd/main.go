package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"arena/internal/auth"
	"arena/internal/cache"
	"arena/internal/config"
	"arena/internal/database"
	"arena/internal/handlers"
	"arena/internal/jobs"
	"arena/internal/logger"
	"arena/internal/metrics"
	"arena/internal/payment"
	"arena/internal/realtime"
	"arena/internal/services"
	"arena/internal/storage"
)

func main() {
	defer logger.Global.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.App.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	auth.InitJWT(cfg.App.JWTSecret)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.App.SeedDemo {
		if _, err := database.SeedDemo(db); err != nil {
			logger.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	ctx := context.Background()

	redisClient := cache.NewClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis at %s is unreachable, verification cache disabled: %v", cfg.Redis.Addr, err)
			redisClient = nil
		}
	}
	verificationCache := cache.NewVerificationCache(redisClient, cfg.Verification.CacheTTL)

	store, err := storage.New(ctx, cfg.Storage, cfg.Server.UploadDir)
	if err != nil {
		logger.Fatalf("Failed to initialize upload storage: %v", err)
	}

	hub := realtime.NewHub()
	m := metrics.New()

	// Initialize services
	referralService := services.NewReferralService(db)
	authService := services.NewAuthService(db, referralService)
	userService := services.NewUserService(db, verificationCache)
	notificationService := services.NewNotificationService(db, hub, m)
	paymentService := services.NewPaymentService(db, payment.NewRegistry(cfg.Payment.AuthDelay), cfg.Payment.ServiceFeePercent, m)
	verificationService := services.NewVerificationService(db, verificationCache, store, notificationService, cfg.Verification.CodeTTL)
	inviteService := services.NewInviteService(db, userService, paymentService, notificationService, m, cfg.Server.PublicBaseURL, cfg.App.InviteTTL)
	conversationService := services.NewConversationService(db, notificationService)
	adminService := services.NewAdminService(db, userService, verificationService)

	router := handlers.NewRouter(handlers.Deps{
		Auth:          authService,
		Users:         userService,
		Referrals:     referralService,
		Verifications: verificationService,
		Notifications: notificationService,
		Invites:       inviteService,
		Payments:      paymentService,
		Conversations: conversationService,
		Admin:         adminService,
		Hub:           hub,
		Metrics:       m,
		FrontendURL:   cfg.Server.FrontendURL,
		PublicBaseURL: cfg.Server.PublicBaseURL,
	})

	expiryJob := jobs.NewExpiryJob(cfg.Jobs.ExpiryInterval, map[string]jobs.Expirer{
		"invites":            inviteService,
		"verification codes": verificationService,
	})
	go expiryJob.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	expiryJob.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Infof("Server exited")
}

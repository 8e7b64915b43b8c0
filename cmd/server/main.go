package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/craftlink/craftlink-backend/internal/config"
	"github.com/craftlink/craftlink-backend/internal/db"
	"github.com/craftlink/craftlink-backend/internal/goroutine"
	httpHandlers "github.com/craftlink/craftlink-backend/internal/http/handlers"
	httpRouter "github.com/craftlink/craftlink-backend/internal/http/router"
	"github.com/craftlink/craftlink-backend/internal/logger"
	"github.com/craftlink/craftlink-backend/internal/repository"
	"github.com/craftlink/craftlink-backend/internal/service"
	"github.com/craftlink/craftlink-backend/internal/ws"
)

func main() {
	// Context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: load config: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: connect to database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: run migrations: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	walletRepo := repository.NewWalletRepository(dbConn)
	cashoutRepo := repository.NewCashoutRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// WebSocket hub.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Services.
	authService := service.NewAuthService(userRepo, tokenManager)
	profileService := service.NewProfileService(userRepo)
	walletService := service.NewWalletService(walletRepo)
	notificationService := service.NewNotificationService(notificationRepo, logger.Log)
	notificationService.SetBroadcaster(hub)
	jobService := service.NewJobService(jobRepo, walletRepo, notificationService, logger.Log, cfg.DefaultCompletionAmount)
	cashoutService := service.NewCashoutService(cashoutRepo, walletRepo, userRepo, logger.Log, cfg.CashoutMinAmount, cfg.CashoutFeePercent)
	matchingService := service.NewMatchingService(cfg.MatchRadiusKm)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	jobHandler := httpHandlers.NewJobHandler(jobService, matchingService, profileService)
	walletHandler := httpHandlers.NewWalletHandler(walletService)
	cashoutHandler := httpHandlers.NewCashoutHandler(cashoutService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	adminHandler := httpHandlers.NewAdminHandler(cashoutService, userRepo, jobRepo, cashoutRepo)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(cfg,
		authHandler, jobHandler, walletHandler, cashoutHandler,
		profileHandler, notificationHandler, adminHandler,
		wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Stop the server when the context is cancelled.
	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: shutdown http server: %v", err)
		}
	})

	logger.Log.WithField("port", cfg.HTTPPort).Info("starting server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: http server: %v", err)
	}
}

func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		log.Printf("main: close database: %v", err)
	}
}

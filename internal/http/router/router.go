package router

import (
	"github.com/gin-gonic/gin"

	"github.com/craftlink/craftlink-backend/internal/config"
	"github.com/craftlink/craftlink-backend/internal/http/handlers"
	"github.com/craftlink/craftlink-backend/internal/http/middleware"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	jobHandler *handlers.JobHandler,
	walletHandler *handlers.WalletHandler,
	cashoutHandler *handlers.CashoutHandler,
	profileHandler *handlers.ProfileHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/profile", profileHandler.Get)
		protected.PUT("/profile", profileHandler.Update)

		protected.POST("/jobs", middleware.RequireRole(models.RoleClient), jobHandler.Create)
		protected.GET("/jobs/feed", middleware.RequireRole(models.RoleArtisan), jobHandler.Feed)
		protected.GET("/jobs/mine", jobHandler.Mine)
		protected.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Get)
		protected.POST("/jobs/:id/accept", middleware.UUIDValidator("id"), middleware.RequireRole(models.RoleArtisan), jobHandler.Accept)
		protected.PUT("/jobs/:id/status", middleware.UUIDValidator("id"), jobHandler.UpdateStatus)
		protected.POST("/jobs/:id/cancel", middleware.UUIDValidator("id"), jobHandler.Cancel)
		protected.PUT("/jobs/:id/budget", middleware.UUIDValidator("id"), middleware.RequireRole(models.RoleClient), jobHandler.SetBudget)

		protected.GET("/wallet", walletHandler.Get)
		protected.POST("/wallet/deposit", walletHandler.Deposit)
		protected.GET("/wallet/transactions", walletHandler.Transactions)

		protected.POST("/cashouts", cashoutHandler.Create)
		protected.GET("/cashouts", cashoutHandler.List)
		protected.GET("/cashouts/:id", middleware.UUIDValidator("id"), cashoutHandler.Get)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/cashouts", adminHandler.ListCashouts)
		admin.POST("/cashouts/:id/settle", middleware.UUIDValidator("id"), adminHandler.SettleCashout)
		admin.GET("/stats", adminHandler.Stats)
	}

	return r
}

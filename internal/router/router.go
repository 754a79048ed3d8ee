package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"walletly/config"
	"walletly/internal/handler"
	"walletly/internal/middleware"
	"walletly/internal/service"
	"walletly/internal/store"
	"walletly/pkg/cloudinary"
)

func Setup(cfg *config.Config, st store.Store, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Services
	authSvc := service.NewAuthService(cfg, st, cloud)
	walletSvc := service.NewWalletService(st, cloud, cfg.Ledger.CascadePageSize)
	txnSvc := service.NewTransactionService(st, cloud, cfg.Ledger.ListLimit)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	txnHandler := handler.NewTransactionHandler(txnSvc, walletSvc)
	uploadHandler := handler.NewUploadHandler(cloud)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(&cfg.JWT))
		{
			authed.GET("/me", authHandler.Me)
			authed.PUT("/me", authHandler.UpdateMe)

			authed.GET("/wallets", walletHandler.List)
			authed.POST("/wallets", walletHandler.Create)
			authed.GET("/wallets/:id", walletHandler.Get)
			authed.PUT("/wallets/:id", walletHandler.Update)
			authed.DELETE("/wallets/:id", walletHandler.Delete)

			authed.GET("/transactions", txnHandler.List)
			authed.POST("/transactions", txnHandler.Create)
			authed.PUT("/transactions/:id", txnHandler.Update)
			authed.DELETE("/transactions/:id", txnHandler.Delete)

			authed.POST("/upload", uploadHandler.Upload)
		}
	}

	return r
}

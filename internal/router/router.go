package router

import (
	"log"
	"time"

	"banca/config"
	"banca/internal/handler"
	"banca/internal/middleware"
	"banca/internal/repository"
	"banca/internal/service"
	"banca/internal/ws"
	"banca/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, hub *ws.Hub) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewLimiter(100, time.Minute)))
	// tighter per-account budget for balance-mutating submissions
	moneyLimit := middleware.RateLimit(middleware.NewLimiter(10, time.Minute))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	withdrawRepo := repository.NewWithdrawRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	configRepo := repository.NewConfigRepository(db)

	var provider payment.Provider
	if cfg.Pix.BaseURL != "" {
		provider = payment.NewPixProvider(cfg.Pix.BaseURL, cfg.Pix.ClientID, cfg.Pix.ClientSecret)
	} else {
		log.Printf("[PIX] no gateway configured, using stub provider")
		provider = payment.NewStubProvider()
	}
	callbackURL := ""
	if cfg.Pix.WebhookBaseURL != "" {
		callbackURL = cfg.Pix.WebhookBaseURL + "/api/v1/webhooks/pix"
	}

	// Services
	timeout := cfg.Database.StatementTimeout
	authSvc := service.NewAuthService(cfg, userRepo)
	walletSvc := service.NewWalletService(db, userRepo, txRepo, hub, timeout)
	depositSvc := service.NewDepositService(db, configRepo, depositRepo, userRepo, walletSvc, provider, hub, callbackURL, timeout)
	withdrawSvc := service.NewWithdrawService(db, configRepo, withdrawRepo, userRepo, walletSvc, provider, hub, timeout)
	gameSvc := service.NewGameService(db, configRepo, userRepo, walletSvc, timeout)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(walletSvc, txRepo)
	depositHandler := handler.NewDepositHandler(depositSvc)
	withdrawHandler := handler.NewWithdrawHandler(withdrawSvc)
	gameHandler := handler.NewGameHandler(gameSvc)
	adminHandler := handler.NewAdminHandler(configRepo, depositSvc, withdrawSvc, walletSvc, depositRepo, withdrawRepo)
	pixWebhookHandler := handler.NewPixWebhookHandler(depositSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.GetBalance)
			me.GET("/transactions", walletHandler.GetTransactions)
			me.GET("/deposits", depositHandler.ListMine)
			me.GET("/withdraws", withdrawHandler.ListMine)
		}

		api.POST("/deposits", authMw, moneyLimit, depositHandler.Create)
		api.POST("/withdraws", authMw, moneyLimit, withdrawHandler.Create)
		api.POST("/bets", authMw, moneyLimit, gameHandler.PlaceBet)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/deposits", adminHandler.ListDeposits)
			admin.POST("/deposits/:id/confirm", adminHandler.ConfirmDeposit)
			admin.POST("/deposits/:id/reject", adminHandler.RejectDeposit)
			admin.GET("/withdraws", adminHandler.ListWithdraws)
			admin.POST("/withdraws/:id/approve", adminHandler.ApproveWithdraw)
			admin.POST("/withdraws/:id/reject", adminHandler.RejectWithdraw)
			admin.POST("/users/:id/adjust", adminHandler.AdjustBalance)
			admin.GET("/config", adminHandler.GetConfig)
			admin.PUT("/config", adminHandler.UpdateConfig)
			admin.POST("/bets/settle", gameHandler.SettleWin)
		}

		api.POST("/webhooks/pix", pixWebhookHandler.Handle)
	}

	r.GET("/ws", ws.Upgrade(&cfg.JWT, hub))

	return r
}

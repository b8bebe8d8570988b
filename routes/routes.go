package routes

import (
	"time"

	"loyaltyhub-backend/handlers"
	"loyaltyhub-backend/ledger"
	"loyaltyhub-backend/middleware"
	"loyaltyhub-backend/registry"
	"loyaltyhub-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// scanDelay is the simulated camera latency in production. Tests inject zero.
const scanDelay = 2500 * time.Millisecond

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	engine := &ledger.Engine{DB: db}
	catalog := &ledger.Catalog{DB: db}
	reg := &registry.Registry{DB: db}
	insights := services.NewInsightsClient()
	scanner := &services.Scanner{DB: db, Device: &services.SimulatedCapture{}, Delay: scanDelay}

	authHandler := &handlers.AuthHandler{DB: db, Registry: reg}
	walletHandler := &handlers.WalletHandler{
		DB:       db,
		Ledger:   engine,
		Catalog:  catalog,
		Scanner:  scanner,
		Sessions: services.NewScanStore(),
	}
	vendorHandler := &handlers.VendorHandler{DB: db, Ledger: engine, Catalog: catalog, Insights: insights}
	adminHandler := &handlers.AdminHandler{DB: db, Registry: reg, Insights: insights}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.POST("/auth/logout", authHandler.Logout)

		// Customer wallet
		protected.GET("/wallet", walletHandler.GetWallet)
		protected.GET("/wallet/transactions", walletHandler.GetTransactions)
		protected.GET("/wallet/rewards", walletHandler.ListRewards)
		protected.POST("/wallet/scan", walletHandler.Scan)
		protected.POST("/wallet/checkin", walletHandler.Checkin)
		protected.POST("/wallet/redeem", walletHandler.Redeem)
	}

	// Merchant terminal (require vendor role + binding)
	vendor := api.Group("/vendor")
	vendor.Use(middleware.AuthMiddleware())
	vendor.Use(middleware.VendorMiddleware())
	{
		vendor.GET("/dashboard", vendorHandler.Dashboard)
		vendor.POST("/credit", vendorHandler.CreditBill)
		vendor.GET("/rewards", vendorHandler.ListRewards)
		vendor.POST("/rewards", vendorHandler.CreateReward)
		vendor.POST("/rewards/suggest", vendorHandler.SuggestReward)
		vendor.GET("/qr", vendorHandler.GetQR)
	}

	// Admin console (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/vendors", adminHandler.ListVendors)
		admin.POST("/vendors", adminHandler.RegisterVendor)
		admin.DELETE("/vendors/:id", adminHandler.RevokeVendor)
		admin.GET("/summary", adminHandler.Summary)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andrasetiawan/rentalku-api/config"
	"github.com/andrasetiawan/rentalku-api/controllers"
	"github.com/andrasetiawan/rentalku-api/logger"
	"github.com/andrasetiawan/rentalku-api/middleware"
	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.GoEnv)
	defer logger.Sync()

	if err := config.ConnectDatabase(); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Merchant{},
		&models.Outlet{},
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Subscription{},
	); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Log.Info("Database migration completed")

	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitStorage(); err != nil {
			logger.Log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	}
	if cfg.StripeSecretKey != "" {
		services.InitBilling(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	}
	if cfg.RedisAddr != "" {
		cache := services.NewRedisSummaryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.Ping(ctx); err != nil {
			logger.Log.Warn("Redis unreachable, dashboard caching disabled", zap.Error(err))
		} else {
			services.SetSummaryCache(cache)
		}
		cancel()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimit(rate.Every(time.Minute/300), 50))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Stripe authenticates webhooks by signature, not JWT
		v1.POST("/billing/webhook", controllers.StripeWebhook)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetCurrentUser)
			authed.GET("/users", controllers.ListUsers)
			authed.PATCH("/users/:id", controllers.UpdateUser)
			authed.DELETE("/users/:id", controllers.DeleteUser)

			authed.POST("/merchants", controllers.CreateMerchant)
			authed.GET("/merchants", controllers.ListMerchants)
			authed.GET("/merchants/:id", controllers.GetMerchant)
			authed.PATCH("/merchants/:id", controllers.UpdateMerchant)

			authed.POST("/outlets", controllers.CreateOutlet)
			authed.GET("/outlets", controllers.ListOutlets)
			authed.GET("/outlets/:id", controllers.GetOutlet)
			authed.PATCH("/outlets/:id", controllers.UpdateOutlet)

			authed.POST("/customers", controllers.CreateCustomer)
			authed.GET("/customers", controllers.ListCustomers)
			authed.GET("/customers/:id", controllers.GetCustomer)
			authed.PATCH("/customers/:id", controllers.UpdateCustomer)

			authed.POST("/products", controllers.CreateProduct)
			authed.GET("/products", controllers.ListProducts)
			authed.GET("/products/:id", controllers.GetProduct)
			authed.PATCH("/products/:id", controllers.UpdateProduct)
			authed.POST("/products/:id/stock", controllers.AdjustStock)
			authed.POST("/products/:id/image", controllers.UploadProductImage)

			authed.POST("/orders", controllers.CreateOrder)
			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/:id", controllers.GetOrder)
			authed.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)

			authed.GET("/analytics/dashboard", controllers.GetDashboard)
			authed.GET("/analytics/growth-metrics", controllers.GetGrowthMetrics)

			authed.POST("/billing/subscription", controllers.CreateSubscription)
			authed.GET("/billing/subscription", controllers.GetSubscription)
		}
	}

	addr := ":" + cfg.Port
	logger.Log.Info("Server starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Rentalku API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}

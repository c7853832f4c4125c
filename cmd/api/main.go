package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"stockval/internal/config"
	"stockval/internal/handlers"
	"stockval/internal/logger"
	"stockval/internal/metrics"
	"stockval/internal/middleware"
	"stockval/internal/provider"
	"stockval/internal/services"
	"stockval/internal/validator"

	_ "stockval/internal/docs" // Import swagger docs
)

// @title           Stockval API
// @version         1.0
// @description     Stockval computes DCF intrinsic valuations from Yahoo Finance data.

// @host      localhost:8080
// @BasePath  /

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize the market-data provider and services
	yahoo := provider.NewYahooClient(
		appConfig.YahooBaseURL,
		appConfig.YahooScrapeBaseURL,
		appConfig.RiskFreeSymbol,
		appConfig.HTTPTimeout,
	)
	valuationService := services.NewValuationService(yahoo)

	// Initialize handlers
	valuationHandler := handlers.NewValuationHandler(valuationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Valuation routes
	router.GET("/fcf/:ticker", valuationHandler.GetFreeCashFlow)
	router.GET("/valuation/:ticker", valuationHandler.GetValuation)
	router.GET("/search/:query", valuationHandler.Search)

	log.Infof("Starting stockval server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"patrimony/internal/middleware"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Holdings *HoldingHandler
	Summary  *SummaryHandler
	Rates    *RatesHandler
	Prices   *PriceHandler
	Backup   *BackupHandler
	Audit    *AuditHandler
}

// NewRouter builds the Gin engine with middleware and routes. Mutating
// routes require apiKey when it is set.
func NewRouter(h Handlers, apiKey string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.APIKeyHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(apiKey))

	holdings := v1.Group("/holdings")
	holdings.GET("", h.Holdings.ListHoldings)
	holdings.POST("", h.Holdings.CreateHolding)
	holdings.GET("/sort", h.Holdings.GetSort)
	holdings.POST("/sort", h.Holdings.ToggleSort)
	holdings.DELETE("/sort", h.Holdings.ClearSort)
	holdings.GET("/:id", h.Holdings.GetHolding)
	holdings.PATCH("/:id", h.Holdings.UpdateHolding)
	holdings.DELETE("/:id", h.Holdings.DeleteHolding)
	holdings.POST("/:id/move", h.Holdings.MoveHolding)

	v1.GET("/summary", h.Summary.GetSummary)

	settings := v1.Group("/settings")
	settings.GET("/rates", h.Rates.GetRates)
	settings.PUT("/rates", h.Rates.UpdateRates)
	settings.POST("/rates/refresh", h.Rates.RefreshRates)

	prices := v1.Group("/prices")
	prices.POST("/crypto/refresh", h.Prices.RefreshCrypto)
	prices.POST("/stocks/refresh", h.Prices.RefreshStocks)
	prices.GET("/status", h.Prices.GetStatus)

	backup := v1.Group("/backup")
	backup.GET("/export", h.Backup.ExportJSON)
	backup.GET("/export.xlsx", h.Backup.ExportXLSX)
	backup.POST("/import", h.Backup.Import)
	backup.POST("/remote", h.Backup.UploadRemote)

	v1.GET("/audit", h.Audit.ListAuditLogs)

	return router
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patrimony/internal/services"
)

// PriceHandler triggers live price refreshes.
type PriceHandler struct {
	priceService services.PriceServicer
	auditService services.AuditServicer
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService services.PriceServicer, auditService services.AuditServicer) *PriceHandler {
	return &PriceHandler{priceService: priceService, auditService: auditService}
}

// RefreshCrypto updates crypto holdings from CoinGecko.
// @Summary     Refresh crypto prices
// @Tags        prices
// @Produce     json
// @Security    APIKeyAuth
// @Success     200 {object} services.RefreshResult
// @Failure     409 {object} ErrorResponse "Refresh already running"
// @Failure     422 {object} ErrorResponse "No CoinGecko ids set"
// @Failure     502 {object} ErrorResponse "Price source unavailable"
// @Router      /prices/crypto/refresh [post]
func (h *PriceHandler) RefreshCrypto(c *gin.Context) {
	res, err := h.priceService.RefreshCrypto(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.logRefresh(c, res)
	c.JSON(http.StatusOK, res)
}

// RefreshStocks updates stock holdings from Yahoo Finance.
// @Summary     Refresh stock prices
// @Description Tickers are looked up one at a time; failed tickers are skipped and listed in the result.
// @Tags        prices
// @Produce     json
// @Security    APIKeyAuth
// @Success     200 {object} services.RefreshResult
// @Failure     409 {object} ErrorResponse "Refresh already running"
// @Failure     422 {object} ErrorResponse "No tickers set"
// @Failure     502 {object} ErrorResponse "Price source unavailable"
// @Router      /prices/stocks/refresh [post]
func (h *PriceHandler) RefreshStocks(c *gin.Context) {
	res, err := h.priceService.RefreshStocks(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.logRefresh(c, res)
	c.JSON(http.StatusOK, res)
}

// GetStatus reports the last refresh times.
// @Summary     Price refresh status
// @Tags        prices
// @Produce     json
// @Success     200 {object} services.PriceStatus
// @Router      /prices/status [get]
func (h *PriceHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.priceService.Status())
}

func (h *PriceHandler) logRefresh(c *gin.Context, res *services.RefreshResult) {
	h.auditService.Log(services.AuditRefreshPrices, 0, c.ClientIP(), map[string]interface{}{
		"scope":   res.Scope,
		"updated": res.Updated,
		"failed":  len(res.Failed),
	})
}

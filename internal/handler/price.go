package handler

import (
	"net/http"
	"strconv"
	"strings"

	"cryptopulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetPrice godoc
// @Summary      Get current price for a tracked coin
// @Description  Returns the latest cached USD price, 24h volume, and 24h change
// @Tags         prices
// @Produce      json
// @Param        id  path  string  true  "CoinGecko id (e.g., bitcoin, ethereum)"
// @Success      200  {object}  domain.PriceSnapshot
// @Failure      400  {object}  map[string]string
// @Router       /api/prices/{id} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	coinID := strings.ToLower(c.Param("id"))
	span.SetAttributes(attribute.String("coin_id", coinID))

	if _, ok := domain.CoinName[coinID]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "unsupported coin: " + coinID,
			"supported_coins": domain.CoinIDs(),
		})
		return
	}

	snapshot, err := h.prices.GetCurrentPrice(ctx, coinID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetAllPrices godoc
// @Summary      Get current prices for all tracked coins
// @Description  Returns latest cached prices for the 8 tracked cryptocurrencies
// @Tags         prices
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/prices [get]
func (h *Handler) GetAllPrices(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-all-prices")
	defer span.End()

	snapshots, err := h.prices.GetCurrentPrices(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": snapshots})
}

// GetHistory godoc
// @Summary      Get historical daily prices for a tracked coin
// @Description  Returns the most recently collected daily price/volume/market-cap series
// @Tags         prices
// @Produce      json
// @Param        id     path   string  true   "CoinGecko id (e.g., bitcoin, ethereum)"
// @Param        limit  query  int     false  "Return only the newest N points"
// @Success      200  {object}  domain.PriceSeries
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/history/{id} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	coinID := strings.ToLower(c.Param("id"))
	span.SetAttributes(attribute.String("coin_id", coinID))

	if _, ok := domain.CoinName[coinID]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "unsupported coin: " + coinID,
			"supported_coins": domain.CoinIDs(),
		})
		return
	}

	series, err := h.prices.GetHistory(ctx, coinID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n < len(series.Points) {
			series.Points = series.Points[len(series.Points)-n:]
		}
	}

	c.JSON(http.StatusOK, series)
}

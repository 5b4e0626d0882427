package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSentiment godoc
// @Summary      Get the latest social sentiment summary
// @Description  Returns per-source label counts and mean polarity of the newest sentiment pass
// @Tags         sentiment
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/sentiment [get]
func (h *Handler) GetSentiment(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-sentiment")
	defer span.End()

	summaries, err := h.insights.LatestSentiment(ctx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sentiment data collected yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": summaries})
}

// GetPosts godoc
// @Summary      Get recently scored reddit posts
// @Description  Returns reddit posts from the newest sentiment pass with their sentiment verdicts
// @Tags         sentiment
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of posts (default 25, max 100)"  default(25)
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/posts [get]
func (h *Handler) GetPosts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-posts")
	defer span.End()

	limit := 25
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	posts, err := h.insights.LatestScoredPosts(ctx, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scored posts collected yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetFearGreed godoc
// @Summary      Get the current crypto Fear & Greed index
// @Description  Returns the latest index value and classification from alternative.me
// @Tags         sentiment
// @Produce      json
// @Success      200  {object}  provider.FearGreedPoint
// @Failure      502  {object}  map[string]string
// @Router       /api/feargreed [get]
func (h *Handler) GetFearGreed(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-feargreed")
	defer span.End()

	point, err := h.insights.FearGreed(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, point)
}

// TriggerCollect godoc
// @Summary      Trigger one collection pass manually
// @Description  Runs one harvest across all sources and reports how many coins yielded history
// @Tags         collect
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/collect/run [post]
func (h *Handler) TriggerCollect(c *gin.Context) {
	if h.harvester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "collector unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-collect")
	defer span.End()

	series, err := h.harvester.RunOnce(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	coins := make([]string, 0, len(series))
	for coinID := range series {
		coins = append(coins, coinID)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"coins_collected": len(series),
		"coins":           coins,
	})
}

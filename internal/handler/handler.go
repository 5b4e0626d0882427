package handler

import (
	"context"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/provider"
	"cryptopulse/internal/sentiment"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// PriceReader serves price snapshots and historical series.
type PriceReader interface {
	GetCurrentPrice(ctx context.Context, coinID string) (*domain.PriceSnapshot, error)
	GetCurrentPrices(ctx context.Context) ([]*domain.PriceSnapshot, error)
	GetHistory(ctx context.Context, coinID string) (domain.PriceSeries, error)
}

// InsightReader serves sentiment artifacts and the fear & greed index.
type InsightReader interface {
	LatestSentiment(ctx context.Context) ([]domain.SentimentSummary, error)
	LatestScoredPosts(ctx context.Context, limit int) ([]sentiment.ScoredRedditPost, error)
	FearGreed(ctx context.Context) (*provider.FearGreedPoint, error)
}

// HarvestTrigger starts one collection pass on demand.
type HarvestTrigger interface {
	RunOnce(ctx context.Context) (map[string]domain.PriceSeries, error)
}

type Handler struct {
	tracer    trace.Tracer
	prices    PriceReader
	insights  InsightReader
	harvester HarvestTrigger
}

func New(tracer trace.Tracer, prices PriceReader, insights InsightReader) *Handler {
	return &Handler{
		tracer:   tracer,
		prices:   prices,
		insights: insights,
	}
}

// SetHarvestTrigger enables the manual collection endpoint.
func (h *Handler) SetHarvestTrigger(t HarvestTrigger) {
	h.harvester = t
}

// RegisterRoutes mounts the API. Middleware applies to the /api group
// only, so /health stays open for probes.
func (h *Handler) RegisterRoutes(r *gin.Engine, middleware ...gin.HandlerFunc) {
	r.GET("/health", h.Health)

	api := r.Group("/api", middleware...)
	api.GET("/prices", h.GetAllPrices)
	api.GET("/prices/:id", h.GetPrice)
	api.GET("/history/:id", h.GetHistory)
	api.GET("/sentiment", h.GetSentiment)
	api.GET("/posts", h.GetPosts)
	api.GET("/feargreed", h.GetFearGreed)
	api.POST("/collect/run", h.TriggerCollect)
}

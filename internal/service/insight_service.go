package service

import (
	"context"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/provider"
	"cryptopulse/internal/sentiment"

	"go.opentelemetry.io/otel/trace"
)

// SummaryStore reads sentiment artifacts back from the dump directory.
type SummaryStore interface {
	LoadLatestJSON(kind, identifier string, v any) (string, error)
}

// FearGreedSource is the live fear & greed index provider.
type FearGreedSource interface {
	FetchLatest(ctx context.Context) (*provider.FearGreedPoint, error)
}

// InsightService surfaces the collected social sentiment and the fear &
// greed index to the API handlers and the bot.
type InsightService struct {
	tracer    trace.Tracer
	store     SummaryStore
	fearGreed FearGreedSource
}

func NewInsightService(tracer trace.Tracer, store SummaryStore, fearGreed FearGreedSource) *InsightService {
	return &InsightService{tracer: tracer, store: store, fearGreed: fearGreed}
}

// LatestSentiment returns the per-source summaries of the newest
// sentiment pass.
func (s *InsightService) LatestSentiment(ctx context.Context) ([]domain.SentimentSummary, error) {
	_, span := s.tracer.Start(ctx, "insight-service.latest-sentiment")
	defer span.End()

	var summaries []domain.SentimentSummary
	if _, err := s.store.LoadLatestJSON("sentiment_summary", "", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// LatestScoredPosts returns up to limit scored reddit posts from the
// newest sentiment pass, newest dump first order preserved.
func (s *InsightService) LatestScoredPosts(ctx context.Context, limit int) ([]sentiment.ScoredRedditPost, error) {
	_, span := s.tracer.Start(ctx, "insight-service.latest-scored-posts")
	defer span.End()

	var posts []sentiment.ScoredRedditPost
	if _, err := s.store.LoadLatestJSON("sentiment_reddit_posts", "", &posts); err != nil {
		return nil, err
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// FearGreed returns the current fear & greed index.
func (s *InsightService) FearGreed(ctx context.Context) (*provider.FearGreedPoint, error) {
	ctx, span := s.tracer.Start(ctx, "insight-service.fear-greed")
	defer span.End()

	return s.fearGreed.FetchLatest(ctx)
}

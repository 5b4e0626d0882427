package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/provider"
	"cryptopulse/internal/sentiment"
)

type mockSummaryStore struct {
	artifacts map[string][]byte
}

func (m *mockSummaryStore) put(kind string, v any) {
	if m.artifacts == nil {
		m.artifacts = make(map[string][]byte)
	}
	data, _ := json.Marshal(v)
	m.artifacts[kind] = data
}

func (m *mockSummaryStore) LoadLatestJSON(kind, identifier string, v any) (string, error) {
	data, ok := m.artifacts[kind]
	if !ok {
		return "", errors.New("not found")
	}
	return kind + ".json", json.Unmarshal(data, v)
}

type mockFearGreed struct {
	point *provider.FearGreedPoint
	err   error
}

func (m *mockFearGreed) FetchLatest(ctx context.Context) (*provider.FearGreedPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.point, nil
}

func TestInsightService_LatestSentiment(t *testing.T) {
	t.Parallel()

	store := &mockSummaryStore{}
	store.put("sentiment_summary", []domain.SentimentSummary{
		{Source: "reddit_posts", ItemsScored: 12, MeanScore: 0.3},
	})
	svc := NewInsightService(testTracer, store, &mockFearGreed{})

	summaries, err := svc.LatestSentiment(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Source != "reddit_posts" {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}

func TestInsightService_LatestSentimentMissing(t *testing.T) {
	t.Parallel()

	svc := NewInsightService(testTracer, &mockSummaryStore{}, &mockFearGreed{})
	if _, err := svc.LatestSentiment(context.Background()); err == nil {
		t.Fatal("expected error when no summary exists")
	}
}

func TestInsightService_LatestScoredPostsLimit(t *testing.T) {
	t.Parallel()

	store := &mockSummaryStore{}
	store.put("sentiment_reddit_posts", []sentiment.ScoredRedditPost{
		{RedditPost: domain.RedditPost{ID: "a"}},
		{RedditPost: domain.RedditPost{ID: "b"}},
		{RedditPost: domain.RedditPost{ID: "c"}},
	})
	svc := NewInsightService(testTracer, store, &mockFearGreed{})

	posts, err := svc.LatestScoredPosts(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "a" {
		t.Fatalf("unexpected posts: %+v", posts)
	}

	posts, err = svc.LatestScoredPosts(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("limit 0 should return everything, got %d", len(posts))
	}
}

func TestInsightService_FearGreed(t *testing.T) {
	t.Parallel()

	point := &provider.FearGreedPoint{Value: 55, Classification: "Greed", Timestamp: time.Unix(1700000000, 0)}
	svc := NewInsightService(testTracer, &mockSummaryStore{}, &mockFearGreed{point: point})

	got, err := svc.FearGreed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != 55 || got.Classification != "Greed" {
		t.Fatalf("unexpected point: %+v", got)
	}
}

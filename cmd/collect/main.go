package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptopulse/internal/collector"
	"cryptopulse/internal/config"
	"cryptopulse/internal/domain"
	"cryptopulse/internal/provider"
	"cryptopulse/internal/sentiment"
	"cryptopulse/internal/store"
	"cryptopulse/pkg/tracing"

	"github.com/joho/godotenv"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	newStoreFunc   = store.New
	exitFunc       = os.Exit
	runOnceFunc    = func(ctx context.Context, r *collector.Runner) (map[string]domain.PriceSeries, error) {
		return r.RunOnce(ctx)
	}
	analyzeFunc = func(ctx context.Context, a *sentiment.Analyzer) ([]domain.SentimentSummary, error) {
		return a.AnalyzeLatest(ctx)
	}
)

// One-shot harvest: collect every source once, run the sentiment pass,
// and exit. Meant for cron-style invocation.
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	artifacts, err := newStoreFunc(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open data dir: %v", err)
	}

	limiter := provider.NewRateLimiter(cfg.CallsPerSecond, cfg.CallsPerMinute)
	client := provider.NewClient(limiter, cfg.MaxRetries, time.Duration(cfg.BaseDelaySecs)*time.Second)

	runner := collector.NewRunner(tracer,
		collector.NewPriceCollector(tracer, provider.NewCoinGeckoProvider(tracer, client), artifacts, cfg.HistoryDays, time.Duration(cfg.CoinDelaySecs)*time.Second),
		collector.NewRedditCollector(tracer, provider.NewRedditProvider(tracer, client, cfg.RedditUserAgent), artifacts, cfg.PostsPerSubreddit, cfg.CommentPosts),
		collector.NewTwitterCollector(tracer, provider.NewTwitterProvider(tracer, client, cfg.TwitterBearerToken), artifacts, cfg.TweetsPerKeyword),
	)

	series, err := runOnceFunc(ctx, runner)
	if err != nil {
		log.Printf("harvest aborted: %v", err)
		exitFunc(1)
		return
	}
	log.Printf("harvest complete, %d coins with history", len(series))

	var llm sentiment.BatchScorer
	if scorer := sentiment.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel); scorer != nil {
		llm = scorer
	}
	analyzer := sentiment.NewAnalyzer(tracer, artifacts, llm, cfg.SentimentBatchSize)

	summaries, err := analyzeFunc(ctx, analyzer)
	if err != nil {
		log.Printf("sentiment pass failed: %v", err)
		exitFunc(1)
		return
	}
	log.Printf("sentiment pass complete, %d sources scored", len(summaries))
}

package job

import (
	"context"
	"log"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// HarvestRunner executes one full collection pass across all sources.
type HarvestRunner interface {
	RunOnce(ctx context.Context) (map[string]domain.PriceSeries, error)
}

// SentimentAnalyzer scores the freshly collected social dumps.
type SentimentAnalyzer interface {
	AnalyzeLatest(ctx context.Context) ([]domain.SentimentSummary, error)
}

// PriceRefresher warms the price cache between harvests.
type PriceRefresher interface {
	RefreshPrices(ctx context.Context) error
}

// Scheduler runs the periodic background work: a full harvest plus
// sentiment pass at the collection interval, and a lighter price
// refresh at the poll interval to keep the cache warm.
type Scheduler struct {
	tracer          trace.Tracer
	runner          HarvestRunner
	analyzer        SentimentAnalyzer
	prices          PriceRefresher
	collectInterval time.Duration
	refreshInterval time.Duration
}

func NewScheduler(
	tracer trace.Tracer,
	runner HarvestRunner,
	analyzer SentimentAnalyzer,
	prices PriceRefresher,
	collectIntervalMins int,
	refreshIntervalSecs int,
) *Scheduler {
	if collectIntervalMins <= 0 {
		collectIntervalMins = 60
	}
	if refreshIntervalSecs <= 0 {
		refreshIntervalSecs = 60
	}
	return &Scheduler{
		tracer:          tracer,
		runner:          runner,
		analyzer:        analyzer,
		prices:          prices,
		collectInterval: time.Duration(collectIntervalMins) * time.Minute,
		refreshInterval: time.Duration(refreshIntervalSecs) * time.Second,
	}
}

// Start launches the background loops. Blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("scheduler starting, collecting every %s", s.collectInterval)

	go s.collectLoop(ctx)
	if s.prices != nil {
		go s.refreshLoop(ctx)
	}

	<-ctx.Done()
	log.Println("scheduler stopped")
}

func (s *Scheduler) collectLoop(ctx context.Context) {
	s.collectOnce(ctx)

	ticker := time.NewTicker(s.collectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.collectOnce(ctx)
		}
	}
}

func (s *Scheduler) collectOnce(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "job.collect-once")
	defer span.End()

	if _, err := s.runner.RunOnce(ctx); err != nil {
		log.Printf("harvest run error: %v", err)
		return
	}

	if s.analyzer != nil {
		if _, err := s.analyzer.AnalyzeLatest(ctx); err != nil {
			log.Printf("sentiment pass error: %v", err)
		}
	}
}

func (s *Scheduler) refreshLoop(ctx context.Context) {
	// Stagger against the harvest that runs at startup.
	select {
	case <-ctx.Done():
		return
	case <-time.After(10 * time.Second):
	}

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.prices.RefreshPrices(ctx); err != nil {
				log.Printf("price refresh error: %v", err)
			}
		}
	}
}

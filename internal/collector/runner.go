package collector

import (
	"context"
	"log"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Runner drives one full harvest across every source. Sources run in
// sequence and fail independently; only context cancellation aborts
// the batch.
type Runner struct {
	tracer  trace.Tracer
	prices  *PriceCollector
	reddit  *RedditCollector
	twitter *TwitterCollector
}

func NewRunner(tracer trace.Tracer, prices *PriceCollector, reddit *RedditCollector, twitter *TwitterCollector) *Runner {
	return &Runner{tracer: tracer, prices: prices, reddit: reddit, twitter: twitter}
}

// RunOnce executes one harvest pass and returns the per-coin price
// series that were collected.
func (r *Runner) RunOnce(ctx context.Context) (map[string]domain.PriceSeries, error) {
	ctx, span := r.tracer.Start(ctx, "collector.run-once")
	defer span.End()

	log.Printf("starting data collection")
	start := time.Now()

	if r.twitter != nil {
		if n, err := r.twitter.Collect(ctx); err != nil {
			return nil, err
		} else if n > 0 {
			log.Printf("collected %d tweets", n)
		}
	}

	if r.reddit != nil {
		posts, comments, err := r.reddit.Collect(ctx)
		if err != nil {
			return nil, err
		}
		log.Printf("collected %d reddit posts, %d comments", posts, comments)
	}

	var series map[string]domain.PriceSeries
	if r.prices != nil {
		var err error
		series, err = r.prices.Collect(ctx)
		if err != nil {
			return series, err
		}
		log.Printf("collected history for %d of %d coins", len(series), len(domain.TrackedCoins))
	}

	log.Printf("data collection finished in %s", time.Since(start).Round(time.Millisecond))
	return series, nil
}

// sleepContext blocks for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package collector

import (
	"context"
	"log"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// TwitterSource is the slice of the Twitter provider the collector needs.
type TwitterSource interface {
	Enabled() bool
	SearchTweets(ctx context.Context, query string, count int) ([]domain.Tweet, error)
}

// TwitterCollector harvests recent tweets for the tracked crypto
// keywords. Tweets matching more than one keyword are deduplicated by
// tweet ID.
type TwitterCollector struct {
	tracer          trace.Tracer
	source          TwitterSource
	store           ArtifactStore
	keywords        []string
	countPerKeyword int
}

func NewTwitterCollector(tracer trace.Tracer, source TwitterSource, store ArtifactStore, countPerKeyword int) *TwitterCollector {
	if countPerKeyword <= 0 {
		countPerKeyword = 100
	}
	return &TwitterCollector{
		tracer:          tracer,
		source:          source,
		store:           store,
		keywords:        provider.CryptoKeywords,
		countPerKeyword: countPerKeyword,
	}
}

// Collect searches every tracked keyword and dumps the deduplicated
// tweets as JSON. Returns the number of distinct tweets collected. A
// provider without credentials is a silent no-op.
func (c *TwitterCollector) Collect(ctx context.Context) (int, error) {
	if !c.source.Enabled() {
		log.Printf("twitter collection disabled, no bearer token configured")
		return 0, nil
	}

	ctx, span := c.tracer.Start(ctx, "collector.twitter")
	defer span.End()

	seen := make(map[string]bool)
	var tweets []domain.Tweet

	for _, keyword := range c.keywords {
		if ctx.Err() != nil {
			return len(tweets), ctx.Err()
		}

		found, err := c.source.SearchTweets(ctx, keyword, c.countPerKeyword)
		if err != nil {
			log.Printf("search tweets for %q: %v", keyword, err)
			continue
		}
		for _, tw := range found {
			if seen[tw.ID] {
				continue
			}
			seen[tw.ID] = true
			tweets = append(tweets, tw)
		}
	}

	if len(tweets) > 0 {
		if path, err := c.store.SaveJSON("tweets", "", tweets); err != nil {
			log.Printf("save tweets: %v", err)
		} else {
			log.Printf("saved %d tweets to %s", len(tweets), path)
		}
	}
	return len(tweets), nil
}

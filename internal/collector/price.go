package collector

import (
	"context"
	"log"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// PriceSource is the slice of the CoinGecko provider the price
// collector needs.
type PriceSource interface {
	FetchCurrentPrices(ctx context.Context, fiats []string) (domain.CurrentPrices, error)
	FetchHistory(ctx context.Context, coinID, fiat string, days int) (domain.PriceSeries, error)
}

// ArtifactStore persists collected data as timestamped dump files.
type ArtifactStore interface {
	SaveJSON(kind, identifier string, v any) (string, error)
	SaveCSV(kind, identifier string, series domain.PriceSeries) (string, error)
}

// PriceCollector harvests current and historical prices for every
// tracked coin. Failures are isolated per coin: a coin that yields no
// data is logged and simply absent from the result map.
type PriceCollector struct {
	tracer      trace.Tracer
	source      PriceSource
	store       ArtifactStore
	fiats       []string
	historyDays int
	coinDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewPriceCollector(tracer trace.Tracer, source PriceSource, store ArtifactStore, historyDays int, coinDelay time.Duration) *PriceCollector {
	if historyDays <= 0 {
		historyDays = 365
	}
	if coinDelay < 0 {
		coinDelay = 0
	}
	return &PriceCollector{
		tracer:      tracer,
		source:      source,
		store:       store,
		fiats:       domain.FiatCurrencies,
		historyDays: historyDays,
		coinDelay:   coinDelay,
		sleep:       sleepContext,
	}
}

// Collect fetches the current snapshot for all coins, then a historical
// series per coin with a fixed delay between coins to stay under the
// provider's quota during long pulls. Returned map only holds coins
// that produced a non-empty series.
func (c *PriceCollector) Collect(ctx context.Context) (map[string]domain.PriceSeries, error) {
	ctx, span := c.tracer.Start(ctx, "collector.prices")
	defer span.End()

	current, err := c.source.FetchCurrentPrices(ctx, c.fiats)
	if err != nil {
		log.Printf("fetch current prices: %v", err)
	} else if len(current) > 0 {
		if path, err := c.store.SaveJSON("prices_current", "", current); err != nil {
			log.Printf("save current prices: %v", err)
		} else {
			log.Printf("saved current prices for %d coins to %s", len(current), path)
		}
	}

	results := make(map[string]domain.PriceSeries)
	for i, coin := range domain.TrackedCoins {
		if i > 0 && c.coinDelay > 0 {
			if err := c.sleep(ctx, c.coinDelay); err != nil {
				return results, err
			}
		}

		series, err := c.source.FetchHistory(ctx, coin.ID, "usd", c.historyDays)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			log.Printf("fetch history for %s: %v", coin.ID, err)
			continue
		}
		if series.Empty() {
			log.Printf("no history returned for %s", coin.ID)
			continue
		}

		results[coin.ID] = series
		if path, err := c.store.SaveCSV("prices_historical", coin.ID, series); err != nil {
			log.Printf("save history for %s: %v", coin.ID, err)
		} else {
			log.Printf("saved %d history points for %s to %s", len(series.Points), coin.ID, path)
		}
	}
	return results, nil
}

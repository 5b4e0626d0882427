package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cryptopulse/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const priceCacheTTL = 90 * time.Second

// PriceProvider is the live price source behind the cache.
type PriceProvider interface {
	FetchCurrentPrices(ctx context.Context, fiats []string) (domain.CurrentPrices, error)
}

// SeriesStore reads historical series back from the dump directory.
type SeriesStore interface {
	LoadLatestCSV(kind, identifier, fiat string) (domain.PriceSeries, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// PriceService serves current prices with a Redis cache in front of the
// live provider, and historical series from the collected dumps. The
// Redis client may be nil; every read then falls through to the source.
type PriceService struct {
	tracer   trace.Tracer
	provider PriceProvider
	store    SeriesStore
	redis    RedisClient
	now      func() time.Time
}

func NewPriceService(
	tracer trace.Tracer,
	provider PriceProvider,
	store SeriesStore,
	redisClient RedisClient,
) *PriceService {
	return &PriceService{
		tracer:   tracer,
		provider: provider,
		store:    store,
		redis:    redisClient,
		now:      time.Now,
	}
}

// GetCurrentPrice returns the latest price snapshot for a coin.
// Falls back to a live API call if cache is empty/expired.
func (s *PriceService) GetCurrentPrice(ctx context.Context, coinID string) (*domain.PriceSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.get-current-price")
	defer span.End()

	if _, ok := domain.CoinName[coinID]; !ok {
		return nil, fmt.Errorf("unsupported coin: %s", coinID)
	}

	if s.redis != nil {
		cached, err := s.getPriceCache(ctx, coinID)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	// Cache miss: one batched API call covers every coin, cache them all.
	snapshots, err := s.fetchSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	snap, ok := snapshots[coinID]
	if !ok {
		return nil, fmt.Errorf("price not available for %s", coinID)
	}
	return snap, nil
}

// GetCurrentPrices returns the latest snapshots for all tracked coins.
func (s *PriceService) GetCurrentPrices(ctx context.Context) ([]*domain.PriceSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.get-current-prices")
	defer span.End()

	var snapshots []*domain.PriceSnapshot
	var missing []string

	for _, coinID := range domain.CoinIDs() {
		if s.redis != nil {
			cached, _ := s.getPriceCache(ctx, coinID)
			if cached != nil {
				snapshots = append(snapshots, cached)
				continue
			}
		}
		missing = append(missing, coinID)
	}

	if len(missing) > 0 {
		fetched, err := s.fetchSnapshots(ctx)
		if err != nil {
			return snapshots, err
		}
		for _, coinID := range missing {
			if snap, ok := fetched[coinID]; ok {
				snapshots = append(snapshots, snap)
			}
		}
	}

	return snapshots, nil
}

// GetHistory returns the most recently collected historical series for
// a coin from the dump directory.
func (s *PriceService) GetHistory(ctx context.Context, coinID string) (domain.PriceSeries, error) {
	_, span := s.tracer.Start(ctx, "price-service.get-history")
	defer span.End()

	if _, ok := domain.CoinName[coinID]; !ok {
		return domain.PriceSeries{}, fmt.Errorf("unsupported coin: %s", coinID)
	}
	return s.store.LoadLatestCSV("prices_historical", coinID, "usd")
}

// RefreshPrices fetches the latest prices and warms the Redis cache.
// The scheduler calls this after every harvest.
func (s *PriceService) RefreshPrices(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "price-service.refresh-prices")
	defer span.End()

	snapshots, err := s.fetchSnapshots(ctx)
	if err != nil {
		return err
	}
	log.Printf("refreshed prices for %d coins", len(snapshots))
	return nil
}

func (s *PriceService) fetchSnapshots(ctx context.Context) (map[string]*domain.PriceSnapshot, error) {
	prices, err := s.provider.FetchCurrentPrices(ctx, domain.FiatCurrencies)
	if err != nil {
		return nil, err
	}

	snapshots := prices.Snapshots(s.now())
	if s.redis != nil {
		for _, snap := range snapshots {
			if err := s.setPriceCache(ctx, snap); err != nil {
				log.Printf("redis cache write error for %s: %v", snap.CoinID, err)
			}
		}
	}
	return snapshots, nil
}

func (s *PriceService) setPriceCache(ctx context.Context, snapshot *domain.PriceSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "price:"+snapshot.CoinID, data, priceCacheTTL).Err()
}

func (s *PriceService) getPriceCache(ctx context.Context, coinID string) (*domain.PriceSnapshot, error) {
	data, err := s.redis.Get(ctx, "price:"+coinID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot domain.PriceSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

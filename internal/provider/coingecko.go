package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches current and historical price data from the
// CoinGecko free API through the shared rate-limited retrying client.
type CoinGeckoProvider struct {
	client  *Client
	baseURL string
	tracer  trace.Tracer
}

func NewCoinGeckoProvider(tracer trace.Tracer, client *Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  client,
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
	}
}

// FetchCurrentPrices fetches quotes for all tracked coins in a single call.
// fiats defaults to domain.FiatCurrencies when empty.
func (p *CoinGeckoProvider) FetchCurrentPrices(ctx context.Context, fiats []string) (domain.CurrentPrices, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-current-prices")
	defer span.End()

	if len(fiats) == 0 {
		fiats = domain.FiatCurrencies
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s&include_24hr_change=true&include_24hr_vol=true&include_market_cap=true",
		p.baseURL, strings.Join(domain.CoinIDs(), ","), strings.Join(fiats, ","))

	body, err := p.client.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch current prices: %w", err)
	}

	// Response shape: {"bitcoin": {"usd": 97000, "usd_24h_change": 2.3,
	// "usd_24h_vol": 45e9, "usd_market_cap": 1.9e12, "eur": ...}, ...}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse current prices: %w", err)
	}

	result := make(domain.CurrentPrices, len(raw))
	for coinID, fields := range raw {
		if _, ok := domain.CoinName[coinID]; !ok {
			continue
		}
		quotes := make(map[string]domain.Quote, len(fiats))
		for _, fiat := range fiats {
			price, ok := fields[fiat]
			if !ok {
				continue
			}
			quotes[fiat] = domain.Quote{
				Price:        price,
				Change24hPct: fields[fiat+"_24h_change"],
				Volume24h:    fields[fiat+"_24h_vol"],
				MarketCap:    fields[fiat+"_market_cap"],
			}
		}
		result[coinID] = quotes
	}

	return result, nil
}

// FetchHistory fetches the daily price/volume/market-cap series for one coin.
func (p *CoinGeckoProvider) FetchHistory(ctx context.Context, coinID, fiat string, days int) (domain.PriceSeries, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-history")
	defer span.End()

	if _, ok := domain.CoinName[coinID]; !ok {
		return domain.PriceSeries{}, fmt.Errorf("untracked coin: %s", coinID)
	}
	if fiat == "" {
		fiat = "usd"
	}
	if days <= 0 {
		days = 365
	}

	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=%s&days=%d&interval=daily",
		p.baseURL, coinID, fiat, days)

	body, err := p.client.Get(ctx, url, nil)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("fetch history for %s: %w", coinID, err)
	}

	var raw struct {
		Prices       [][]float64 `json:"prices"`
		TotalVolumes [][]float64 `json:"total_volumes"`
		MarketCaps   [][]float64 `json:"market_caps"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.PriceSeries{}, fmt.Errorf("parse history for %s: %w", coinID, err)
	}

	series := domain.PriceSeries{
		CoinID: coinID,
		Fiat:   fiat,
		Points: make([]domain.PricePoint, 0, len(raw.Prices)),
	}
	for i, pt := range raw.Prices {
		if len(pt) < 2 {
			continue
		}
		point := domain.PricePoint{
			Timestamp: time.UnixMilli(int64(pt[0])).UTC(),
			Price:     pt[1],
		}
		// Volume and market-cap rows line up with the price rows by index.
		if i < len(raw.TotalVolumes) && len(raw.TotalVolumes[i]) >= 2 {
			point.Volume = raw.TotalVolumes[i][1]
		}
		if i < len(raw.MarketCaps) && len(raw.MarketCaps[i]) >= 2 {
			point.MarketCap = raw.MarketCaps[i][1]
		}
		series.Points = append(series.Points, point)
	}

	return series, nil
}

package domain

import "time"

// Coin is a tracked cryptocurrency, identified by its CoinGecko id.
type Coin struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TrackedCoins lists every cryptocurrency harvested each cycle.
var TrackedCoins = []Coin{
	{ID: "bitcoin", Name: "Bitcoin"},
	{ID: "ethereum", Name: "Ethereum"},
	{ID: "binancecoin", Name: "BNB"},
	{ID: "ripple", Name: "XRP"},
	{ID: "cardano", Name: "Cardano"},
	{ID: "solana", Name: "Solana"},
	{ID: "polkadot", Name: "Polkadot"},
	{ID: "dogecoin", Name: "Dogecoin"},
}

// CoinName maps a CoinGecko id to its display name.
var CoinName map[string]string

func init() {
	CoinName = make(map[string]string, len(TrackedCoins))
	for _, c := range TrackedCoins {
		CoinName[c.ID] = c.Name
	}
}

// CoinIDs returns the ids of all tracked coins in declaration order.
func CoinIDs() []string {
	ids := make([]string, len(TrackedCoins))
	for i, c := range TrackedCoins {
		ids[i] = c.ID
	}
	return ids
}

// FiatCurrencies lists the quote currencies requested from the price API.
var FiatCurrencies = []string{"usd", "eur", "gbp", "jpy"}

// Quote holds one coin's price data in a single fiat currency.
type Quote struct {
	Price        float64 `json:"price"`
	Change24hPct float64 `json:"change_24h_pct"`
	Volume24h    float64 `json:"volume_24h"`
	MarketCap    float64 `json:"market_cap"`
}

// CurrentPrices maps coin id -> fiat currency -> quote for one snapshot.
type CurrentPrices map[string]map[string]Quote

// PriceSnapshot is the flattened USD view of one coin, used by the API,
// the Redis cache, and the Telegram bot.
type PriceSnapshot struct {
	CoinID          string  `json:"coin_id"`
	Name            string  `json:"name"`
	PriceUSD        float64 `json:"price_usd"`
	Volume24h       float64 `json:"volume_24h"`
	Change24hPct    float64 `json:"change_24h_pct"`
	MarketCapUSD    float64 `json:"market_cap_usd"`
	LastUpdatedUnix int64   `json:"last_updated_unix"`
}

// Snapshots flattens the USD quotes of one batch into per-coin
// snapshots stamped with the given time. Coins without a USD quote are
// dropped.
func (p CurrentPrices) Snapshots(at time.Time) map[string]*PriceSnapshot {
	out := make(map[string]*PriceSnapshot, len(p))
	for coinID, quotes := range p {
		usd, ok := quotes["usd"]
		if !ok {
			continue
		}
		out[coinID] = &PriceSnapshot{
			CoinID:          coinID,
			Name:            CoinName[coinID],
			PriceUSD:        usd.Price,
			Volume24h:       usd.Volume24h,
			Change24hPct:    usd.Change24hPct,
			MarketCapUSD:    usd.MarketCap,
			LastUpdatedUnix: at.Unix(),
		}
	}
	return out
}

// PricePoint is one daily row of a historical series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	MarketCap float64   `json:"market_cap"`
}

// PriceSeries is the historical price/volume/market-cap frame for one coin.
type PriceSeries struct {
	CoinID string       `json:"coin_id"`
	Fiat   string       `json:"fiat"`
	Points []PricePoint `json:"points"`
}

// Empty reports whether the series carries no rows.
func (s PriceSeries) Empty() bool {
	return len(s.Points) == 0
}

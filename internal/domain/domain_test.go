package domain

import "testing"

func TestTrackedCoinsHaveNames(t *testing.T) {
	if len(TrackedCoins) == 0 {
		t.Fatal("no tracked coins configured")
	}
	for _, c := range TrackedCoins {
		if c.ID == "" || c.Name == "" {
			t.Fatalf("incomplete coin entry: %+v", c)
		}
		if CoinName[c.ID] != c.Name {
			t.Fatalf("CoinName missing entry for %s", c.ID)
		}
	}
}

func TestCoinIDsOrder(t *testing.T) {
	ids := CoinIDs()
	if len(ids) != len(TrackedCoins) {
		t.Fatalf("expected %d ids, got %d", len(TrackedCoins), len(ids))
	}
	if ids[0] != "bitcoin" {
		t.Fatalf("expected bitcoin first, got %s", ids[0])
	}
}

func TestFiatCurrencies(t *testing.T) {
	if len(FiatCurrencies) == 0 || FiatCurrencies[0] != "usd" {
		t.Fatalf("unexpected fiat currency set: %v", FiatCurrencies)
	}
}

func TestPriceSeriesEmpty(t *testing.T) {
	var s PriceSeries
	if !s.Empty() {
		t.Fatal("zero-value series should be empty")
	}
	s.Points = append(s.Points, PricePoint{Price: 1})
	if s.Empty() {
		t.Fatal("series with one row should not be empty")
	}
}

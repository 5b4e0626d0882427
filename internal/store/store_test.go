package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cryptopulse/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestSaveJSONFilename(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC) }

	path, err := s.SaveJSON("prices_current", "", map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "prices_current_20250601_123045.json" {
		t.Fatalf("unexpected filename: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), "\n") {
		t.Fatalf("JSON artifacts must be newline-free: %q", data)
	}
}

func TestSaveJSONWithIdentifier(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC) }

	path, err := s.SaveJSON("reddit_posts", "bitcoin", []string{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "reddit_posts_bitcoin_20250601_123045.json" {
		t.Fatalf("unexpected filename: %s", filepath.Base(path))
	}
}

func TestCSVRoundTrip(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := domain.PriceSeries{
		CoinID: "bitcoin",
		Fiat:   "usd",
		Points: []domain.PricePoint{
			{Timestamp: base, Price: 97000.5, Volume: 4.5e10, MarketCap: 1.9e12},
			{Timestamp: base.Add(24 * time.Hour), Price: 98100.25, Volume: 4.7e10, MarketCap: 1.92e12},
			{Timestamp: base.Add(48 * time.Hour), Price: 96500, Volume: 4.2e10, MarketCap: 1.88e12},
		},
	}

	path, err := s.SaveCSV("prices_historical", "bitcoin", series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.LoadCSV(path, "bitcoin", "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Points) != len(series.Points) {
		t.Fatalf("row count changed: saved %d, loaded %d", len(series.Points), len(loaded.Points))
	}
	for i, pt := range series.Points {
		got := loaded.Points[i]
		if !got.Timestamp.Equal(pt.Timestamp) {
			t.Fatalf("row %d timestamp: saved %v, loaded %v", i, pt.Timestamp, got.Timestamp)
		}
		if got.Price != pt.Price || got.Volume != pt.Volume || got.MarketCap != pt.MarketCap {
			t.Fatalf("row %d columns changed: saved %+v, loaded %+v", i, pt, got)
		}
	}
}

func TestLoadLatestPicksNewest(t *testing.T) {
	s := newTestStore(t)

	stamps := []time.Time{
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}
	for i, stamp := range stamps {
		stamp := stamp
		s.now = func() time.Time { return stamp }
		if _, err := s.SaveJSON("prices_current", "", map[string]int{"run": i}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var out map[string]int
	path, err := s.LoadLatestJSON("prices_current", "", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(path, "20250601_120000") {
		t.Fatalf("expected newest artifact, got %s", path)
	}
	if out["run"] != 1 {
		t.Fatalf("expected run 1 payload, got %v", out)
	}
}

func TestLoadLatestJSONMissing(t *testing.T) {
	s := newTestStore(t)

	var out map[string]int
	_, err := s.LoadLatestJSON("prices_current", "", &out)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLatestPathIdentifierIsolation(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	if _, err := s.SaveCSV("prices_historical", "bitcoin", domain.PriceSeries{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.LatestPath("prices_historical", "ethereum", "csv"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist for other identifier, got %v", err)
	}
}

package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"cryptopulse/internal/domain"
)

const timestampLayout = "20060102_150405"

// Store persists harvest artifacts as timestamped JSON and CSV files under
// a single data directory. Filenames follow
// {type}_{identifier}_{yyyymmdd_HHMMSS}.{ext}; the identifier segment is
// omitted when empty.
type Store struct {
	dataDir string

	now func() time.Time
}

// New creates the data directory if needed.
func New(dataDir string) (*Store, error) {
	if strings.TrimSpace(dataDir) == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir, now: time.Now}, nil
}

// Dir returns the root of the artifact tree.
func (s *Store) Dir() string {
	return s.dataDir
}

func (s *Store) filename(kind, identifier, ext string) string {
	stamp := s.now().Format(timestampLayout)
	if identifier == "" {
		return filepath.Join(s.dataDir, fmt.Sprintf("%s_%s.%s", kind, stamp, ext))
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("%s_%s_%s.%s", kind, identifier, stamp, ext))
}

// SaveJSON writes v as a compact JSON artifact and returns its path.
func (s *Store) SaveJSON(kind, identifier string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s artifact: %w", kind, err)
	}
	path := s.filename(kind, identifier, "json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s artifact: %w", kind, err)
	}
	return path, nil
}

// SaveCSV writes a historical series as a CSV artifact with
// timestamp/price/volume/market_cap columns and returns its path.
func (s *Store) SaveCSV(kind, identifier string, series domain.PriceSeries) (string, error) {
	path := s.filename(kind, identifier, "csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s artifact: %w", kind, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "price", "volume", "market_cap"}); err != nil {
		return "", fmt.Errorf("write %s header: %w", kind, err)
	}
	for _, pt := range series.Points {
		row := []string{
			pt.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(pt.Price, 'f', -1, 64),
			strconv.FormatFloat(pt.Volume, 'f', -1, 64),
			strconv.FormatFloat(pt.MarketCap, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write %s row: %w", kind, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s artifact: %w", kind, err)
	}
	return path, nil
}

// LatestPath returns the newest artifact matching kind/identifier/ext, or
// os.ErrNotExist when none has been written yet. The timestamp suffix sorts
// lexicographically, so the max filename is the newest.
func (s *Store) LatestPath(kind, identifier, ext string) (string, error) {
	pattern := kind + "_*." + ext
	if identifier != "" {
		pattern = kind + "_" + identifier + "_*." + ext
	}
	matches, err := filepath.Glob(filepath.Join(s.dataDir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s artifact for %q: %w", ext, kind, os.ErrNotExist)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// LoadLatestJSON decodes the newest JSON artifact for kind/identifier into v.
func (s *Store) LoadLatestJSON(kind, identifier string, v any) (string, error) {
	path, err := s.LatestPath(kind, identifier, "json")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return path, nil
}

// LoadCSV reads a series artifact back into memory.
func (s *Store) LoadCSV(path, coinID, fiat string) (domain.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return domain.PriceSeries{CoinID: coinID, Fiat: fiat}, nil
	}

	series := domain.PriceSeries{
		CoinID: coinID,
		Fiat:   fiat,
		Points: make([]domain.PricePoint, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return domain.PriceSeries{}, fmt.Errorf("parse timestamp in %s: %w", path, err)
		}
		price, _ := strconv.ParseFloat(row[1], 64)
		volume, _ := strconv.ParseFloat(row[2], 64)
		marketCap, _ := strconv.ParseFloat(row[3], 64)
		series.Points = append(series.Points, domain.PricePoint{
			Timestamp: ts,
			Price:     price,
			Volume:    volume,
			MarketCap: marketCap,
		})
	}
	return series, nil
}

// LoadLatestCSV reads the newest series artifact for kind/identifier.
func (s *Store) LoadLatestCSV(kind, identifier, fiat string) (domain.PriceSeries, error) {
	path, err := s.LatestPath(kind, identifier, "csv")
	if err != nil {
		return domain.PriceSeries{}, err
	}
	return s.LoadCSV(path, identifier, fiat)
}

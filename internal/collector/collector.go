package collector

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"math/rand"
	"time"

	"AlgoSentinel/internal/model"
)

// ErrNoData is returned when the source has no bars for the requested window.
var ErrNoData = errors.New("no data returned")

// MockFetcher returns controllable deterministic data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.PriceBar // fixed bars per symbol, takes precedence
	Errs  map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	base := m.Price
	if base == 0 {
		base = 100
	}
	return generateMockBars(symbol, base, start, end), nil
}

// generateMockBars produces one bar per weekday in [start, end]: a slow sine
// cycle plus seeded noise, so the same symbol always yields the same series.
func generateMockBars(symbol string, basePrice float64, start, end time.Time) []model.PriceBar {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	var bars []model.PriceBar
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.15*math.Sin(float64(i)/9) + 0.01*rng.NormFloat64())
		bars = append(bars, model.PriceBar{
			Date:   day,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + rng.Int63n(500000),
		})
		i++
	}
	return bars
}

// Collector wraps a Fetcher with ingestion checks.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches daily bars for one symbol and validates them.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s %s: %w", c.Fetcher.Name(), symbol, ErrNoData)
	}
	if err := ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("validate %s: %w", symbol, err)
	}
	log.Printf("[INFO] Fetched %d bars for %s from %s", len(bars), symbol, c.Fetcher.Name())
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

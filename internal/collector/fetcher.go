package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"AlgoSentinel/internal/model"
)

// ErrMalformedInput is returned when a price series violates basic bar invariants.
var ErrMalformedInput = errors.New("malformed price series")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)
	Name() string
}

// ValidateBars checks a series before any indicator work: non-empty,
// strictly increasing dates, positive finite prices and non-negative volume.
func ValidateBars(bars []model.PriceBar) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: no bars", ErrMalformedInput)
	}
	for i, b := range bars {
		for _, p := range []float64{b.Open, b.High, b.Low, b.Close} {
			if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return fmt.Errorf("%w: bar %d (%s) has invalid price %v", ErrMalformedInput, i, b.Date.Format("2006-01-02"), p)
			}
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: bar %d (%s) has negative volume %d", ErrMalformedInput, i, b.Date.Format("2006-01-02"), b.Volume)
		}
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return fmt.Errorf("%w: bar %d (%s) is not after previous bar", ErrMalformedInput, i, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}

package calculator

import (
	"errors"

	"AlgoSentinel/internal/model"
)

// MomentumSeries is the difference between a fast and a slow exponential mean of closes.
// Callers should treat the first slowSpan values as unreliable.
func MomentumSeries(closes []float64, fastSpan, slowSpan int) ([]model.Opt, error) {
	if fastSpan >= slowSpan {
		return nil, errors.New("fast span must be shorter than slow span")
	}
	fast, err := EMASeries(closes, fastSpan)
	if err != nil {
		return nil, err
	}
	slow, err := EMASeries(closes, slowSpan)
	if err != nil {
		return nil, err
	}
	out := make([]model.Opt, len(closes))
	for i := range closes {
		if fast[i].Valid && slow[i].Valid {
			out[i] = model.Some(fast[i].Value - slow[i].Value)
		}
	}
	return out, nil
}

package calculator

import (
	"errors"

	"AlgoSentinel/internal/model"
)

// SMASeries computes the simple trailing mean over period values.
// The first period-1 entries are undefined.
func SMASeries(values []float64, period int) ([]model.Opt, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.Opt, len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = model.Some(sum / float64(period))
	}
	return out, nil
}

// EMASeries computes the bias-adjusted exponential mean with smoothing 2/(span+1).
// Every entry is defined, but early values are dominated by the first few closes.
func EMASeries(values []float64, span int) ([]model.Opt, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	alpha := 2.0 / float64(span+1)
	decay := 1 - alpha
	out := make([]model.Opt, len(values))
	var num, den float64
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = model.Some(num / den)
	}
	return out, nil
}

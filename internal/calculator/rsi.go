package calculator

import (
	"errors"

	"AlgoSentinel/internal/model"
)

// RSISeries computes the relative strength index for every close.
// Gains and losses are averaged with a simple trailing mean over `period` deltas.
// The first bar has no prior close and counts as a zero change, so index i is
// defined once i >= period-1. A window with no losses reads 100, and a window
// with no movement at all reads 50.
func RSISeries(closes []float64, period int) ([]model.Opt, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.Opt, len(closes))
	for i := period - 1; i < len(closes); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			if j == 0 {
				continue
			}
			change := closes[j] - closes[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)
		out[i] = model.Some(rsiFromAverages(avgGain, avgLoss))
	}
	return out, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

package strategy

import (
	"fmt"

	"AlgoSentinel/internal/calculator"
	"AlgoSentinel/internal/model"
)

// Generate classifies every bar of a truncated indicator series.
// Each signal depends only on its own bar; there is no cooldown or hysteresis.
func Generate(bars []model.IndicatorBar, th Thresholds) ([]model.SignalBar, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("generate signals: %w", calculator.ErrInsufficientHistory)
	}
	out := make([]model.SignalBar, len(bars))
	for i, b := range bars {
		if !b.Defined() {
			return nil, fmt.Errorf("generate signals: bar %s has undefined indicators", b.Date.Format("2006-01-02"))
		}
		out[i] = model.SignalBar{
			PriceBar:    b.PriceBar,
			RSI:         b.RSI.Value,
			MAShort:     b.MAShort.Value,
			MALong:      b.MALong.Value,
			Momentum:    b.Momentum.Value,
			VolumeRatio: b.VolumeRatio.Value,
			Signal:      Classify(b.RSI.Value, b.MAShort.Value, b.MALong.Value, th),
		}
	}
	return out, nil
}

// CountSignals tallies the non-HOLD signals of a series.
func CountSignals(bars []model.SignalBar) (buys, sells int) {
	for _, b := range bars {
		switch b.Signal {
		case model.SignalBuy:
			buys++
		case model.SignalSell:
			sells++
		}
	}
	return buys, sells
}

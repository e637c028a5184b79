package calculator

import (
	"errors"
	"fmt"

	"AlgoSentinel/internal/model"
)

// ErrInsufficientHistory is returned when no bar survives the warm-up window.
var ErrInsufficientHistory = errors.New("insufficient history")

// Params are the indicator periods.
type Params struct {
	RSIPeriod     int
	MAShortPeriod int
	MALongPeriod  int
	MomentumFast  int
	MomentumSlow  int
	VolumePeriod  int
}

// DefaultParams returns RSI(14), MA(20/50), momentum(12/26) and a 20-bar volume mean.
func DefaultParams() Params {
	return Params{
		RSIPeriod:     14,
		MAShortPeriod: 20,
		MALongPeriod:  50,
		MomentumFast:  12,
		MomentumSlow:  26,
		VolumePeriod:  20,
	}
}

// FirstUsableIndex is the index of the first bar on which every indicator is defined.
func (p Params) FirstUsableIndex() int {
	idx := p.RSIPeriod - 1
	for _, n := range []int{p.MAShortPeriod - 1, p.MALongPeriod - 1, p.VolumePeriod - 1} {
		if n > idx {
			idx = n
		}
	}
	return idx
}

// Annotate computes every indicator for the bars and returns one IndicatorBar per input bar.
// The input slice is not modified.
func Annotate(bars []model.PriceBar, p Params) ([]model.IndicatorBar, error) {
	closes := model.Closes(bars)

	rsi, err := RSISeries(closes, p.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	maShort, err := SMASeries(closes, p.MAShortPeriod)
	if err != nil {
		return nil, fmt.Errorf("short ma: %w", err)
	}
	maLong, err := SMASeries(closes, p.MALongPeriod)
	if err != nil {
		return nil, fmt.Errorf("long ma: %w", err)
	}
	momentum, err := MomentumSeries(closes, p.MomentumFast, p.MomentumSlow)
	if err != nil {
		return nil, fmt.Errorf("momentum: %w", err)
	}
	volRatio, err := VolumeRatioSeries(model.Volumes(bars), p.VolumePeriod)
	if err != nil {
		return nil, fmt.Errorf("volume ratio: %w", err)
	}

	out := make([]model.IndicatorBar, len(bars))
	for i, b := range bars {
		out[i] = model.IndicatorBar{
			PriceBar:    b,
			RSI:         rsi[i],
			MAShort:     maShort[i],
			MALong:      maLong[i],
			Momentum:    momentum[i],
			VolumeRatio: volRatio[i],
		}
	}
	return out, nil
}

// Truncate keeps only the bars whose indicators are all defined.
// For a clean series this is everything from FirstUsableIndex onward.
func Truncate(bars []model.IndicatorBar) ([]model.IndicatorBar, error) {
	out := make([]model.IndicatorBar, 0, len(bars))
	for _, b := range bars {
		if b.Defined() {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%d bars: %w", len(bars), ErrInsufficientHistory)
	}
	return out, nil
}

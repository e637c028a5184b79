package strategy

import (
	"sort"

	"AlgoSentinel/internal/model"
)

// Current reads the last bar of a signal series. ok is false for an empty series.
func Current(symbol string, series []model.SignalBar) (rec model.CurrentSignal, ok bool) {
	if len(series) == 0 {
		return model.CurrentSignal{}, false
	}
	last := series[len(series)-1]
	return model.CurrentSignal{
		Symbol:      symbol,
		Date:        last.Date,
		Price:       last.Close,
		RSI:         last.RSI,
		MAShort:     last.MAShort,
		MALong:      last.MALong,
		Momentum:    last.Momentum,
		VolumeRatio: last.VolumeRatio,
		Signal:      last.Signal,
	}, true
}

// CurrentSignals returns one record per non-empty series, ordered by symbol.
func CurrentSignals(series map[string][]model.SignalBar) []model.CurrentSignal {
	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	out := make([]model.CurrentSignal, 0, len(symbols))
	for _, sym := range symbols {
		if rec, ok := Current(sym, series[sym]); ok {
			out = append(out, rec)
		}
	}
	return out
}

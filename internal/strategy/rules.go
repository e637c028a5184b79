package strategy

import "AlgoSentinel/internal/model"

// Thresholds are the RSI levels that gate entries and exits.
type Thresholds struct {
	RSIBuy  float64
	RSISell float64
}

// DefaultThresholds returns the classic 30/70 RSI bands.
func DefaultThresholds() Thresholds {
	return Thresholds{RSIBuy: 30, RSISell: 70}
}

// Classify maps one bar's indicators to a signal.
// Entry needs both an oversold RSI and an up-trend (AND); exit needs either an
// overbought RSI or a down-trend (OR). BUY is written first and SELL overrides it.
// Equal moving averages satisfy neither trend condition.
func Classify(rsi, maShort, maLong float64, th Thresholds) model.Signal {
	sig := model.SignalHold
	if rsi < th.RSIBuy && maShort > maLong {
		sig = model.SignalBuy
	}
	if rsi > th.RSISell || maShort < maLong {
		sig = model.SignalSell
	}
	return sig
}

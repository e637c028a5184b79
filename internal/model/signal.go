package model

import "time"

// Signal is the per-bar trading decision.
type Signal string

const (
	SignalHold Signal = "HOLD"
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
)

// Actionable reports whether the signal should reach the notification channel.
func (s Signal) Actionable() bool {
	return s == SignalBuy || s == SignalSell
}

// SignalBar is an indicator bar whose indicators are all defined, plus its signal.
// Indicator fields are plain floats because truncation already removed the warm-up rows.
type SignalBar struct {
	PriceBar
	RSI         float64 `json:"rsi"`
	MAShort     float64 `json:"ma_short"`
	MALong      float64 `json:"ma_long"`
	Momentum    float64 `json:"momentum"`
	VolumeRatio float64 `json:"volume_ratio"`
	Signal      Signal  `json:"signal"`
}

// Prediction is the classifier output attached to a live signal.
type Prediction struct {
	Label      string  `json:"label"` // "UP" or "DOWN"
	Confidence float64 `json:"confidence"`
}

// CurrentSignal is the live recommendation for one symbol, read from its last SignalBar.
type CurrentSignal struct {
	Symbol      string      `json:"symbol"`
	Date        time.Time   `json:"date"`
	Price       float64     `json:"price"`
	RSI         float64     `json:"rsi"`
	MAShort     float64     `json:"ma_short"`
	MALong      float64     `json:"ma_long"`
	Momentum    float64     `json:"momentum"`
	VolumeRatio float64     `json:"volume_ratio"`
	Signal      Signal      `json:"signal"`
	Prediction  *Prediction `json:"prediction,omitempty"`
}

package predictor

import (
	"math"

	"AlgoSentinel/internal/model"
)

// NumFeatures is the width of every feature vector.
const NumFeatures = 9

// FeatureNames labels the columns produced by Features, in order.
var FeatureNames = [NumFeatures]string{
	"rsi", "momentum", "volume_ratio", "ma_short", "ma_long",
	"ma_diff", "rsi_ma", "momentum_sq", "volatility",
}

// Inputs are the five indicator values a feature vector is derived from.
type Inputs struct {
	RSI         float64
	Momentum    float64
	VolumeRatio float64
	MAShort     float64
	MALong      float64
}

// InputsFromBar reads the indicators of a historical bar.
func InputsFromBar(b model.SignalBar) Inputs {
	return Inputs{RSI: b.RSI, Momentum: b.Momentum, VolumeRatio: b.VolumeRatio, MAShort: b.MAShort, MALong: b.MALong}
}

// InputsFromCurrent reads the indicators of a live record.
func InputsFromCurrent(s model.CurrentSignal) Inputs {
	return Inputs{RSI: s.RSI, Momentum: s.Momentum, VolumeRatio: s.VolumeRatio, MAShort: s.MAShort, MALong: s.MALong}
}

// Features is the one transform used by both training and live prediction.
func Features(in Inputs) []float64 {
	diff := in.MAShort - in.MALong
	return []float64{
		in.RSI,
		in.Momentum,
		in.VolumeRatio,
		in.MAShort,
		in.MALong,
		diff,
		in.RSI / (in.MALong + 1),
		in.Momentum * in.Momentum,
		math.Abs(diff) / (in.MALong + 1),
	}
}

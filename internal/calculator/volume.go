package calculator

import "AlgoSentinel/internal/model"

// VolumeRatioSeries divides each volume by its trailing mean over period bars.
// Undefined during warm-up and wherever the trailing mean is zero.
func VolumeRatioSeries(volumes []float64, period int) ([]model.Opt, error) {
	means, err := SMASeries(volumes, period)
	if err != nil {
		return nil, err
	}
	out := make([]model.Opt, len(volumes))
	for i, m := range means {
		if m.Valid && m.Value > 0 {
			out[i] = model.Some(volumes[i] / m.Value)
		}
	}
	return out, nil
}

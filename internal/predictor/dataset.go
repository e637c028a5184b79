package predictor

import (
	"math"
	"math/rand"

	"AlgoSentinel/internal/model"
)

// Sample is one labelled feature vector. Y is 1 when the next close is higher.
type Sample struct {
	X []float64
	Y int
}

// BuildDataset labels each bar with whether the following bar closed higher.
// The last bar has no next day and is never part of the dataset.
func BuildDataset(series []model.SignalBar) []Sample {
	if len(series) < 2 {
		return nil
	}
	out := make([]Sample, 0, len(series)-1)
	for i := 0; i < len(series)-1; i++ {
		y := 0
		if series[i+1].Close > series[i].Close {
			y = 1
		}
		out = append(out, Sample{X: Features(InputsFromBar(series[i])), Y: y})
	}
	return out
}

// Split shuffles with a fixed seed and holds out testSize of the samples.
func Split(samples []Sample, testSize float64, seed int64) (train, test []Sample) {
	n := len(samples)
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = make([]Sample, 0, nTest)
	train = make([]Sample, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, samples[idx])
		} else {
			train = append(train, samples[idx])
		}
	}
	return train, test
}

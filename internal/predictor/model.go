package predictor

import (
	"errors"
	"fmt"

	randomForest "github.com/malaschitz/randomForest"

	"AlgoSentinel/internal/model"
)

// ErrNotEnoughSamples is returned when training data cannot support a model.
var ErrNotEnoughSamples = errors.New("not enough training samples")

// MinSamples is the smallest dataset Train accepts.
const MinSamples = 20

// Trees is the forest size.
const Trees = 100

const (
	LabelUp   = "UP"
	LabelDown = "DOWN"
)

// Classifier predicts the next-day direction from a feature vector.
type Classifier interface {
	Predict(features []float64) (model.Prediction, error)
}

// ForestModel is a random forest over standardised features.
// Confidence is the winning share of tree votes, in [0.5, 1].
type ForestModel struct {
	Scaler    *Scaler
	Forest    *randomForest.Forest
	Accuracy  float64 // on the held-out split
	TrainSize int
	TestSize  int
}

// Train fits the model on an 80/20 style split and scores it on the holdout.
// The split is seeded; tree bagging is not.
func Train(samples []Sample, testSize float64, seed int64) (*ForestModel, error) {
	if len(samples) < MinSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughSamples, len(samples), MinSamples)
	}

	rows := make([][]float64, len(samples))
	for i, s := range samples {
		rows[i] = s.X
	}
	scaler := FitScaler(rows)

	train, test := Split(samples, testSize, seed)

	xs := make([][]float64, len(train))
	ys := make([]int, len(train))
	var counts [2]int
	for i, s := range train {
		xs[i] = scaler.Transform(s.X)
		ys[i] = s.Y
		counts[s.Y]++
	}
	if counts[0] == 0 || counts[1] == 0 {
		return nil, fmt.Errorf("%w: training split has a single class", ErrNotEnoughSamples)
	}

	forest := &randomForest.Forest{}
	forest.Data = randomForest.ForestData{X: xs, Class: ys}
	forest.Train(Trees)

	m := &ForestModel{Scaler: scaler, Forest: forest, TrainSize: len(train), TestSize: len(test)}
	if len(test) > 0 {
		correct := 0
		for _, s := range test {
			p, err := m.Predict(s.X)
			if err != nil {
				return nil, err
			}
			if (p.Label == LabelUp) == (s.Y == 1) {
				correct++
			}
		}
		m.Accuracy = float64(correct) / float64(len(test))
	}
	return m, nil
}

// Predict classifies one unscaled feature vector.
func (m *ForestModel) Predict(features []float64) (model.Prediction, error) {
	if len(features) != NumFeatures {
		return model.Prediction{}, fmt.Errorf("predict: expected %d features, got %d", NumFeatures, len(features))
	}
	votes := m.Forest.Vote(m.Scaler.Transform(features))
	if len(votes) < 2 {
		return model.Prediction{}, fmt.Errorf("predict: forest returned %d classes", len(votes))
	}
	total := votes[0] + votes[1]
	if total <= 0 {
		return model.Prediction{}, errors.New("predict: forest cast no votes")
	}
	pUp := votes[1] / total
	if pUp >= 0.5 {
		return model.Prediction{Label: LabelUp, Confidence: pUp}, nil
	}
	return model.Prediction{Label: LabelDown, Confidence: 1 - pUp}, nil
}

package predictor

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"AlgoSentinel/internal/model"
)

func TestFeatures(t *testing.T) {
	got := Features(Inputs{RSI: 40, Momentum: -2, VolumeRatio: 1.5, MAShort: 105, MALong: 99})
	want := []float64{40, -2, 1.5, 105, 99, 6, 0.4, 4, 0.06}
	if len(got) != NumFeatures {
		t.Fatalf("expected %d features, got %d", NumFeatures, len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("feature %s: expected %v, got %v", FeatureNames[i], want[i], got[i])
		}
	}
}

func TestLiveAndTrainingFeaturesMatch(t *testing.T) {
	bar := model.SignalBar{RSI: 55, MAShort: 10, MALong: 12, Momentum: 0.3, VolumeRatio: 0.8}
	cur := model.CurrentSignal{RSI: 55, MAShort: 10, MALong: 12, Momentum: 0.3, VolumeRatio: 0.8}
	a := Features(InputsFromBar(bar))
	b := Features(InputsFromCurrent(cur))
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("feature %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBuildDatasetExcludesLastBar(t *testing.T) {
	closes := []float64{10, 11, 10.5, 12}
	series := make([]model.SignalBar, len(closes))
	for i, c := range closes {
		series[i].Close = c
	}
	ds := BuildDataset(series)
	if len(ds) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(ds))
	}
	wantY := []int{1, 0, 1}
	for i, s := range ds {
		if s.Y != wantY[i] {
			t.Errorf("sample %d: expected label %d, got %d", i, wantY[i], s.Y)
		}
	}
	if BuildDataset(series[:1]) != nil {
		t.Error("expected no samples from a single bar")
	}
}

func TestSplitDeterministic(t *testing.T) {
	samples := make([]Sample, 101)
	for i := range samples {
		samples[i] = Sample{X: []float64{float64(i)}}
	}
	tr1, te1 := Split(samples, 0.2, 42)
	tr2, te2 := Split(samples, 0.2, 42)
	if len(te1) != 21 || len(tr1) != 80 {
		t.Fatalf("expected 80/21 split, got %d/%d", len(tr1), len(te1))
	}
	for i := range te1 {
		if te1[i].X[0] != te2[i].X[0] {
			t.Fatal("expected identical split for the same seed")
		}
	}
	_ = tr2
}

func TestScalerPopulationStd(t *testing.T) {
	s := FitScaler([][]float64{{2}, {4}, {4}, {4}, {5}, {5}, {7}, {9}})
	if s.Mean[0] != 5 || s.Std[0] != 2 {
		t.Errorf("expected mean 5 std 2, got %v %v", s.Mean[0], s.Std[0])
	}
}

func TestScalerConstantColumn(t *testing.T) {
	s := FitScaler([][]float64{{1, 5}, {3, 5}})
	x := s.Transform([]float64{3, 5})
	if x[0] != 1 || x[1] != 0 {
		t.Errorf("expected [1 0], got %v", x)
	}
}

func separable(n int) []Sample {
	rng := rand.New(rand.NewSource(7))
	out := make([]Sample, n)
	for i := range out {
		y := i % 2
		center := -5.0
		if y == 1 {
			center = 5
		}
		x := make([]float64, NumFeatures)
		for j := range x {
			x[j] = center + rng.NormFloat64()
		}
		out[i] = Sample{X: x, Y: y}
	}
	return out
}

func TestTrainSeparable(t *testing.T) {
	m, err := Train(separable(200), 0.2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Accuracy < 0.99 {
		t.Errorf("expected near-perfect holdout accuracy, got %v", m.Accuracy)
	}
	if m.TrainSize != 160 || m.TestSize != 40 {
		t.Errorf("expected 160/40, got %d/%d", m.TrainSize, m.TestSize)
	}

	up := make([]float64, NumFeatures)
	for j := range up {
		up[j] = 5
	}
	p, err := m.Predict(up)
	if err != nil {
		t.Fatal(err)
	}
	if p.Label != LabelUp || p.Confidence < 0.5 || p.Confidence > 1 {
		t.Errorf("expected confident UP, got %+v", p)
	}
	down := make([]float64, NumFeatures)
	for j := range down {
		down[j] = -5
	}
	if p, err := m.Predict(down); err != nil || p.Label != LabelDown {
		t.Errorf("expected DOWN, got %+v (%v)", p, err)
	}

	var _ Classifier = m
	if _, err := m.Predict([]float64{1}); err == nil {
		t.Error("expected error for wrong feature width")
	}
}

func TestTrainRejectsSmallOrSingleClass(t *testing.T) {
	if _, err := Train(separable(5), 0.2, 42); !errors.Is(err, ErrNotEnoughSamples) {
		t.Errorf("expected ErrNotEnoughSamples, got %v", err)
	}
	one := separable(40)
	for i := range one {
		one[i].Y = 1
	}
	if _, err := Train(one, 0.2, 42); !errors.Is(err, ErrNotEnoughSamples) {
		t.Errorf("expected ErrNotEnoughSamples for single class, got %v", err)
	}
}

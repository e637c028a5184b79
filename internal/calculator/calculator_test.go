package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"AlgoSentinel/internal/model"
)

func makeBars(closes []float64, volume int64) []model.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRSISeries_WarmupAndValues(t *testing.T) {
	closes := []float64{10, 11, 10.5, 11.5}
	rsi, err := RSISeries(closes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi[0].Valid {
		t.Errorf("expected first value undefined, got %+v", rsi[0])
	}
	// first bar counts as no change: deltas 0, +1 -> only gains
	if !rsi[1].Valid || rsi[1].Value != 100 {
		t.Errorf("expected rsi[1]=100, got %+v", rsi[1])
	}
	// deltas +1, -0.5 -> avg gain 0.5, avg loss 0.25 -> rs 2
	if !rsi[2].Valid || !almostEqual(rsi[2].Value, 100-100.0/3) {
		t.Errorf("expected rsi[2]=66.67, got %+v", rsi[2])
	}
	// deltas -0.5, +1 -> same averages
	if !almostEqual(rsi[3].Value, rsi[2].Value) {
		t.Errorf("expected rsi[3]=%f, got %f", rsi[2].Value, rsi[3].Value)
	}
}

func TestRSISeries_ZeroLossConventions(t *testing.T) {
	rising := []float64{1, 2, 3, 4, 5, 6}
	rsi, _ := RSISeries(rising, 3)
	for i := 3; i < len(rising); i++ {
		if rsi[i].Value != 100 {
			t.Errorf("rising series: expected RSI 100 at %d, got %f", i, rsi[i].Value)
		}
	}

	flat := []float64{5, 5, 5, 5, 5}
	rsi, _ = RSISeries(flat, 3)
	for i := 3; i < len(flat); i++ {
		if rsi[i].Value != 50 {
			t.Errorf("flat series: expected RSI 50 at %d, got %f", i, rsi[i].Value)
		}
	}
}

func TestRSISeries_AlternatingIsNeutral(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 101
		}
	}
	rsi, _ := RSISeries(closes, 14)
	for i := 14; i < len(closes); i++ {
		if !almostEqual(rsi[i].Value, 50) {
			t.Fatalf("expected RSI 50 at %d, got %f", i, rsi[i].Value)
		}
	}
}

func TestRSISeries_InvalidPeriod(t *testing.T) {
	if _, err := RSISeries([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestSMASeries(t *testing.T) {
	sma, err := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Opt{model.None(), model.None(), model.Some(2), model.Some(3), model.Some(4)}
	for i := range want {
		if sma[i] != want[i] {
			t.Errorf("index %d: expected %+v, got %+v", i, want[i], sma[i])
		}
	}
}

func TestEMASeries_AdjustedWeights(t *testing.T) {
	ema, _ := EMASeries([]float64{1, 2}, 3)
	if !ema[0].Valid || ema[0].Value != 1 {
		t.Errorf("expected first EMA to equal first value, got %+v", ema[0])
	}
	// alpha 0.5: (2 + 0.5*1) / (1 + 0.5)
	if !almostEqual(ema[1].Value, 2.5/1.5) {
		t.Errorf("expected %f, got %f", 2.5/1.5, ema[1].Value)
	}
}

func TestMomentumSeries_DefinedFromFirstBar(t *testing.T) {
	closes := []float64{10, 10, 10, 12, 15}
	mom, err := MomentumSeries(closes, 12, 26)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mom[0].Valid || mom[0].Value != 0 {
		t.Errorf("expected zero momentum on first bar, got %+v", mom[0])
	}
	if mom[4].Value <= 0 {
		t.Errorf("expected positive momentum on a rising tail, got %f", mom[4].Value)
	}
	if _, err := MomentumSeries(closes, 26, 12); err == nil {
		t.Error("expected error when fast span >= slow span")
	}
}

func TestVolumeRatioSeries(t *testing.T) {
	vols := []float64{100, 100, 100, 400}
	vr, _ := VolumeRatioSeries(vols, 2)
	if vr[0].Valid {
		t.Error("expected undefined ratio during warm-up")
	}
	if vr[1].Value != 1 {
		t.Errorf("expected ratio 1, got %f", vr[1].Value)
	}
	if vr[3].Value != 400.0/250.0 {
		t.Errorf("expected ratio 1.6, got %f", vr[3].Value)
	}

	zero, _ := VolumeRatioSeries([]float64{0, 0, 0}, 2)
	for i, v := range zero {
		if v.Valid {
			t.Errorf("expected undefined ratio with zero mean volume at %d", i)
		}
	}
}

func TestAnnotateAndTruncate_FirstUsableIndex(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i%7) - float64(i%3)
	}
	bars := makeBars(closes, 1000)
	p := DefaultParams()

	annotated, err := Annotate(bars, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(annotated) != len(bars) {
		t.Fatalf("expected %d annotated bars, got %d", len(bars), len(annotated))
	}
	if p.FirstUsableIndex() != 49 {
		t.Fatalf("expected first usable index 49, got %d", p.FirstUsableIndex())
	}
	if annotated[48].Defined() {
		t.Error("expected bar 48 to be inside the warm-up window")
	}
	if !annotated[49].Defined() {
		t.Errorf("expected bar 49 to be fully defined, got %+v", annotated[49])
	}

	usable, err := Truncate(annotated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(usable) != len(bars)-49 {
		t.Errorf("expected %d usable bars, got %d", len(bars)-49, len(usable))
	}
	if !usable[0].Date.Equal(bars[49].Date) {
		t.Errorf("expected usable series to start at %v, got %v", bars[49].Date, usable[0].Date)
	}
}

func TestRSISeries_DefinedFromPeriodMinusOne(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	rsi, _ := RSISeries(closes, 14)
	if rsi[12].Valid {
		t.Errorf("expected rsi[12] undefined, got %+v", rsi[12])
	}
	if !rsi[13].Valid {
		t.Errorf("expected rsi[13] defined")
	}
}

func TestFirstUsableIndex_NonDefaultPeriods(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want int
	}{
		{"defaults", DefaultParams(), 49},
		{"rsi longer than long ma", Params{RSIPeriod: 60, MAShortPeriod: 20, MALongPeriod: 50, MomentumFast: 12, MomentumSlow: 26, VolumePeriod: 20}, 59},
		{"rsi equal to long ma", Params{RSIPeriod: 30, MAShortPeriod: 10, MALongPeriod: 30, MomentumFast: 12, MomentumSlow: 26, VolumePeriod: 20}, 29},
		{"volume window longest", Params{RSIPeriod: 5, MAShortPeriod: 3, MALongPeriod: 8, MomentumFast: 2, MomentumSlow: 4, VolumePeriod: 12}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.FirstUsableIndex(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestAnnotate_LongRSIWarmup(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + float64(i%7) - float64(i%3)
	}
	p := DefaultParams()
	p.RSIPeriod = 60
	annotated, err := Annotate(makeBars(closes, 1000), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if annotated[58].Defined() {
		t.Error("expected bar 58 to be inside the warm-up window")
	}
	if !annotated[59].Defined() {
		t.Errorf("expected bar 59 to be fully defined, got %+v", annotated[59])
	}
	usable, err := Truncate(annotated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(usable) != len(closes)-p.FirstUsableIndex() {
		t.Errorf("expected %d usable bars, got %d", len(closes)-p.FirstUsableIndex(), len(usable))
	}
}

func TestTruncate_InsufficientHistory(t *testing.T) {
	bars := makeBars(make30(), 1000)
	annotated, _ := Annotate(bars, DefaultParams())
	_, err := Truncate(annotated)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestAnnotate_Idempotent(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 50 + math.Sin(float64(i)/5)*3
	}
	bars := makeBars(closes, 500)
	a, _ := Annotate(bars, DefaultParams())
	b, _ := Annotate(bars, DefaultParams())
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical annotation at %d, got %+v vs %+v", i, a[i], b[i])
		}
	}
}

func make30() []float64 {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	return closes
}

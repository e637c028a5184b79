package strategy

import (
	"errors"
	"testing"
	"time"

	"AlgoSentinel/internal/calculator"
	"AlgoSentinel/internal/model"
)

func TestClassify_AllBoundaries(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name    string
		rsi     float64
		maShort float64
		maLong  float64
		want    model.Signal
	}{
		{"oversold in up-trend buys", 25, 105, 100, model.SignalBuy},
		{"oversold at threshold holds", 30, 105, 100, model.SignalHold},
		{"neutral in up-trend holds", 50, 105, 100, model.SignalHold},
		{"overbought in up-trend sells", 75, 105, 100, model.SignalSell},
		{"rsi at sell threshold holds", 70, 105, 100, model.SignalHold},
		{"neutral in down-trend sells", 50, 95, 100, model.SignalSell},
		{"oversold in down-trend sells", 20, 95, 100, model.SignalSell},
		{"equal averages hold", 50, 100, 100, model.SignalHold},
		{"oversold with equal averages holds", 20, 100, 100, model.SignalHold},
	}
	for _, tt := range tests {
		if got := Classify(tt.rsi, tt.maShort, tt.maLong, th); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

// Exits fire on either condition while entries need both. This asymmetry is intentional.
func TestClassify_ExitBiasAsymmetry(t *testing.T) {
	th := DefaultThresholds()
	if Classify(80, 105, 100, th) != model.SignalSell {
		t.Error("expected overbought RSI alone to trigger SELL")
	}
	if Classify(50, 95, 100, th) != model.SignalSell {
		t.Error("expected down-trend alone to trigger SELL")
	}
	if Classify(20, 95, 100, th) == model.SignalBuy {
		t.Error("expected oversold RSI alone not to trigger BUY")
	}
	if Classify(50, 105, 100, th) == model.SignalBuy {
		t.Error("expected up-trend alone not to trigger BUY")
	}
}

// SELL is written after BUY, so it wins if thresholds are configured to overlap.
func TestClassify_SellOverridesBuy(t *testing.T) {
	th := Thresholds{RSIBuy: 60, RSISell: 40}
	if got := Classify(50, 105, 100, th); got != model.SignalSell {
		t.Errorf("expected SELL to override BUY, got %s", got)
	}
}

func indicatorBar(day int, rsi, maShort, maLong float64) model.IndicatorBar {
	return model.IndicatorBar{
		PriceBar: model.PriceBar{
			Date:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
			Close: 100,
		},
		RSI:         model.Some(rsi),
		MAShort:     model.Some(maShort),
		MALong:      model.Some(maLong),
		Momentum:    model.Some(0.5),
		VolumeRatio: model.Some(1.2),
	}
}

func TestGenerate_RepeatsWithoutCooldown(t *testing.T) {
	bars := []model.IndicatorBar{
		indicatorBar(0, 25, 105, 100),
		indicatorBar(1, 25, 105, 100),
		indicatorBar(2, 50, 105, 100),
		indicatorBar(3, 75, 105, 100),
		indicatorBar(4, 75, 105, 100),
	}
	got, err := Generate(bars, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Signal{model.SignalBuy, model.SignalBuy, model.SignalHold, model.SignalSell, model.SignalSell}
	for i := range want {
		if got[i].Signal != want[i] {
			t.Errorf("bar %d: expected %s, got %s", i, want[i], got[i].Signal)
		}
	}
	if got[0].Momentum != 0.5 || got[0].VolumeRatio != 1.2 {
		t.Errorf("expected indicator snapshot carried over, got %+v", got[0])
	}
	buys, sells := CountSignals(got)
	if buys != 2 || sells != 2 {
		t.Errorf("expected 2 buys and 2 sells, got %d and %d", buys, sells)
	}
}

func TestGenerate_RejectsUntruncatedSeries(t *testing.T) {
	bars := []model.IndicatorBar{indicatorBar(0, 25, 105, 100)}
	bars[0].RSI = model.None()
	if _, err := Generate(bars, DefaultThresholds()); err == nil {
		t.Error("expected error for undefined indicators")
	}
	if _, err := Generate(nil, DefaultThresholds()); !errors.Is(err, calculator.ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory for empty series, got %v", err)
	}
}

func TestCurrentSignals_OnePerNonEmptySeries(t *testing.T) {
	a, _ := Generate([]model.IndicatorBar{
		indicatorBar(0, 25, 105, 100),
		indicatorBar(1, 50, 105, 100),
	}, DefaultThresholds())
	b, _ := Generate([]model.IndicatorBar{indicatorBar(0, 80, 105, 100)}, DefaultThresholds())
	series := map[string][]model.SignalBar{
		"TCS.NS":  b,
		"SBIN.NS": a,
		"INFY.NS": nil,
	}

	recs := CurrentSignals(series)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Symbol != "SBIN.NS" || recs[0].Signal != model.SignalHold {
		t.Errorf("expected SBIN.NS HOLD first, got %s %s", recs[0].Symbol, recs[0].Signal)
	}
	if recs[1].Symbol != "TCS.NS" || recs[1].Signal != model.SignalSell {
		t.Errorf("expected TCS.NS SELL second, got %s %s", recs[1].Symbol, recs[1].Signal)
	}
	if recs[0].Price != 100 || recs[0].RSI != 50 {
		t.Errorf("expected snapshot of last bar, got %+v", recs[0])
	}
	if series["SBIN.NS"][1].Signal != model.SignalHold {
		t.Error("expected series to be left untouched")
	}
}

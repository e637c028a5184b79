package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.RunsTotal.Inc()
	m.InstrumentsTotal.WithLabelValues("ok").Add(2)
	m.LastTotalPnL.Set(-12.5)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		"sentinel_runs_total 1",
		`sentinel_instruments_total{outcome="ok"} 2`,
		"sentinel_last_total_pnl -12.5",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}

func TestIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.TradesTotal.Inc()
	if a.Registry == b.Registry {
		t.Error("expected separate registries")
	}
}

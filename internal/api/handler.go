package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"AlgoSentinel/internal/model"
)

// Handler serves report views.
type Handler struct {
	source  ReportSource
	started time.Time
}

func (h *Handler) latest(c *gin.Context) *model.Report {
	report := h.source.Latest()
	if report == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no completed run yet"})
	}
	return report
}

// GetSignals returns the current signal of every usable symbol.
// ?signal=BUY filters by signal.
func (h *Handler) GetSignals(c *gin.Context) {
	report := h.latest(c)
	if report == nil {
		return
	}
	signals := report.Signals
	if want := strings.ToUpper(c.Query("signal")); want != "" {
		filtered := make([]model.CurrentSignal, 0, len(signals))
		for _, s := range signals {
			if string(s.Signal) == want {
				filtered = append(filtered, s)
			}
		}
		signals = filtered
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id": report.Summary.RunID,
		"count":  len(signals),
		"data":   signals,
	})
}

// GetBacktests returns every backtest result ordered by symbol.
func (h *Handler) GetBacktests(c *gin.Context) {
	report := h.latest(c)
	if report == nil {
		return
	}
	symbols := make([]string, 0, len(report.Backtests))
	for sym := range report.Backtests {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	results := make([]*model.BacktestResult, 0, len(symbols))
	for _, sym := range symbols {
		results = append(results, report.Backtests[sym])
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id": report.Summary.RunID,
		"count":  len(results),
		"data":   results,
	})
}

// GetBacktest returns one symbol's result, or the reason it has none.
func (h *Handler) GetBacktest(c *gin.Context) {
	report := h.latest(c)
	if report == nil {
		return
	}
	symbol := c.Param("symbol")
	if res, ok := report.Backtests[symbol]; ok {
		c.JSON(http.StatusOK, gin.H{"data": res})
		return
	}
	for _, o := range report.Outcomes {
		if o.Symbol == symbol {
			c.JSON(http.StatusNotFound, gin.H{"error": "no backtest result", "symbol": symbol, "status": o.Status})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol", "symbol": symbol})
}

// GetStatus returns the last run summary and per-instrument outcomes.
func (h *Handler) GetStatus(c *gin.Context) {
	resp := gin.H{"uptime_seconds": int(time.Since(h.started).Seconds())}
	if report := h.source.Latest(); report != nil {
		resp["summary"] = report.Summary
		resp["outcomes"] = report.Outcomes
	}
	c.JSON(http.StatusOK, resp)
}

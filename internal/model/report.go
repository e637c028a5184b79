package model

import "time"

// OutcomeStatus classifies how one instrument fared in a pipeline run.
type OutcomeStatus string

const (
	OutcomeOK                  OutcomeStatus = "ok"
	OutcomeNoData              OutcomeStatus = "no_data"
	OutcomeMalformed           OutcomeStatus = "malformed"
	OutcomeInsufficientHistory OutcomeStatus = "insufficient_history"
	OutcomeNoTrades            OutcomeStatus = "no_trades"
	OutcomeError               OutcomeStatus = "error"
)

// InstrumentOutcome is the per-symbol status line of a run.
type InstrumentOutcome struct {
	Symbol string        `json:"symbol"`
	Status OutcomeStatus `json:"status"`
	Bars   int           `json:"bars"`
	Error  string        `json:"error,omitempty"`
}

// RunSummary aggregates one pipeline run across all instruments.
type RunSummary struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Instruments   int       `json:"instruments"`
	Usable        int       `json:"usable"`
	TotalTrades   int       `json:"total_trades"`
	TotalPnL      float64   `json:"total_pnl"`
	ActiveSignals int       `json:"active_signals"`
	MLAccuracy    *float64  `json:"ml_accuracy,omitempty"`
}

// Report is the complete result of a pipeline run.
type Report struct {
	Summary   RunSummary                 `json:"summary"`
	Signals   []CurrentSignal            `json:"signals"`
	Backtests map[string]*BacktestResult `json:"backtests"`
	Outcomes  []InstrumentOutcome        `json:"outcomes"`
}

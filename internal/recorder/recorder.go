package recorder

import "AlgoSentinel/internal/model"

// Recorder persists run results for later analysis.
type Recorder interface {
	// RecordSignals stores the actionable (BUY/SELL) records of a run.
	RecordSignals(runID string, signals []model.CurrentSignal) error
	// RecordBacktest stores one instrument's summary and its closed trades.
	RecordBacktest(runID string, result *model.BacktestResult) error
	RecordAnalytics(summary model.RunSummary) error
	Close() error
}

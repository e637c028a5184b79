package recorder

import "AlgoSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignals(_ string, _ []model.CurrentSignal) error { return nil }
func (n *NoopRecorder) RecordBacktest(_ string, _ *model.BacktestResult) error { return nil }
func (n *NoopRecorder) RecordAnalytics(_ model.RunSummary) error              { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }

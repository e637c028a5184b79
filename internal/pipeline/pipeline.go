package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"AlgoSentinel/internal/backtest"
	"AlgoSentinel/internal/calculator"
	"AlgoSentinel/internal/collector"
	"AlgoSentinel/internal/config"
	"AlgoSentinel/internal/metrics"
	"AlgoSentinel/internal/model"
	"AlgoSentinel/internal/notifier"
	"AlgoSentinel/internal/predictor"
	"AlgoSentinel/internal/recorder"
	"AlgoSentinel/internal/strategy"
	"AlgoSentinel/internal/trace"
)

// Outcome is what one instrument produced. Series is set whenever signals were
// generated, Result only when at least one trade closed.
type Outcome struct {
	Symbol string
	Bars   int
	Series []model.SignalBar
	Result *model.BacktestResult
	Status model.OutcomeStatus
	Err    error
}

// Pipeline runs fetch, indicators, signals, backtest, prediction, notification
// and recording for every configured symbol.
type Pipeline struct {
	Config    *config.Config
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Now       func() time.Time

	runMu  sync.Mutex
	mu     sync.RWMutex
	latest *model.Report
}

// New creates a Pipeline. A nil notifier or recorder is replaced by a no-op.
func New(cfg *config.Config, col *collector.Collector, n notifier.Notifier, rec recorder.Recorder, m *metrics.Metrics) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Pipeline{
		Config:    cfg,
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Metrics:   m,
		Now:       time.Now,
	}
}

// Latest returns the most recent report, or nil before the first run.
func (p *Pipeline) Latest() *model.Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Restore loads the report saved by a previous process, if any.
func (p *Pipeline) Restore() error {
	if p.Config.ReportFile == "" {
		return nil
	}
	report, err := LoadReport(p.Config.ReportFile)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	if report != nil {
		p.mu.Lock()
		p.latest = report
		p.mu.Unlock()
		log.Printf("[INFO] restored report from run %s", report.Summary.RunID)
	}
	return nil
}

// Run executes one full pass. Runs never overlap. Per-instrument failures are
// reported in the Report and never abort the batch.
func (p *Pipeline) Run(ctx context.Context) (*model.Report, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	startedAt := p.Now()
	runID := startedAt.UTC().Format("20060102T150405.000")
	ctx, span := trace.StartSpan(ctx, "pipeline.run")
	span.SetAttributes(attribute.String("run_id", runID), attribute.Int("symbols", len(p.Config.Symbols)))
	defer span.End()

	p.Metrics.RunsTotal.Inc()
	log.Printf("[INFO] run %s started (%d symbols)", runID, len(p.Config.Symbols))

	start, end, err := p.Config.DateRange(startedAt)
	if err != nil {
		return nil, fmt.Errorf("resolve date range: %w", err)
	}

	outcomes := make([]Outcome, len(p.Config.Symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)
	for i, sym := range p.Config.Symbols {
		g.Go(func() error {
			outcomes[i] = p.processInstrument(gctx, sym, start, end)
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	series := make(map[string][]model.SignalBar)
	results := make(map[string]*model.BacktestResult)
	var failures []string
	for _, o := range outcomes {
		p.Metrics.InstrumentsTotal.WithLabelValues(string(o.Status)).Inc()
		if o.Series != nil {
			series[o.Symbol] = o.Series
		}
		if o.Result != nil {
			results[o.Symbol] = o.Result
		}
		if o.Status == model.OutcomeError {
			failures = append(failures, fmt.Sprintf("%s: %v", o.Symbol, o.Err))
		}
	}

	var accuracy *float64
	var clf predictor.Classifier
	if p.Config.Predictor.Enabled {
		if m, err := p.train(series); err != nil {
			log.Printf("[WARN] predictor not trained: %v", err)
		} else {
			acc := m.Accuracy
			accuracy = &acc
			clf = m
			p.Metrics.ModelAccuracy.Set(acc)
		}
	}

	signals := strategy.CurrentSignals(series)
	if clf != nil {
		for i := range signals {
			pred, err := clf.Predict(predictor.Features(predictor.InputsFromCurrent(signals[i])))
			if err != nil {
				log.Printf("[WARN] predict %s: %v", signals[i].Symbol, err)
				continue
			}
			signals[i].Prediction = &pred
		}
	}

	report := &model.Report{
		Signals:   signals,
		Backtests: results,
		Outcomes:  make([]model.InstrumentOutcome, len(outcomes)),
	}
	for i, o := range outcomes {
		line := model.InstrumentOutcome{Symbol: o.Symbol, Status: o.Status, Bars: o.Bars}
		if o.Err != nil {
			line.Error = o.Err.Error()
		}
		report.Outcomes[i] = line
	}

	alerts := notifier.Alerts(signals)
	for _, s := range alerts {
		p.Metrics.SignalsTotal.WithLabelValues(string(s.Signal)).Inc()
		p.notify(ctx, notifier.FormatSignalAlert(s))
	}
	if len(failures) > 0 {
		p.notify(ctx, notifier.FormatError(errors.New(strings.Join(failures, "; "))))
	}

	summary := model.RunSummary{
		RunID:         runID,
		StartedAt:     startedAt,
		Instruments:   len(outcomes),
		Usable:        len(series),
		ActiveSignals: len(alerts),
		MLAccuracy:    accuracy,
	}
	for _, r := range results {
		summary.TotalTrades += r.TotalTrades
		summary.TotalPnL += r.TotalPnL
	}
	summary.FinishedAt = p.Now()
	report.Summary = summary

	p.record(runID, report)
	p.notify(ctx, notifier.FormatRunSummary(summary))

	p.Metrics.TradesTotal.Add(float64(summary.TotalTrades))
	p.Metrics.LastTotalPnL.Set(summary.TotalPnL)
	p.Metrics.RunDuration.Observe(summary.FinishedAt.Sub(startedAt).Seconds())

	if p.Config.ReportFile != "" {
		if err := SaveReport(p.Config.ReportFile, report); err != nil {
			log.Printf("[ERROR] save report: %v", err)
		}
	}

	p.mu.Lock()
	p.latest = report
	p.mu.Unlock()

	log.Printf("[INFO] run %s done: %d/%d usable, %d trades, P&L %.2f, %d active signals",
		runID, summary.Usable, summary.Instruments, summary.TotalTrades, summary.TotalPnL, summary.ActiveSignals)
	return report, nil
}

func (p *Pipeline) processInstrument(ctx context.Context, symbol string, start, end time.Time) Outcome {
	ctx, span := trace.StartSpan(ctx, "pipeline.instrument")
	span.SetAttributes(attribute.String("symbol", symbol))
	defer span.End()

	out := Outcome{Symbol: symbol}
	fail := func(status model.OutcomeStatus, err error) Outcome {
		out.Status, out.Err = status, err
		span.RecordError(err)
		log.Printf("[WARN] %s: %s: %v", symbol, status, err)
		return out
	}

	ps, err := p.Collector.Collect(ctx, symbol, start, end)
	if err != nil {
		switch {
		case errors.Is(err, collector.ErrNoData):
			return fail(model.OutcomeNoData, err)
		case errors.Is(err, collector.ErrMalformedInput):
			return fail(model.OutcomeMalformed, err)
		default:
			return fail(model.OutcomeError, err)
		}
	}
	out.Bars = len(ps.Bars)

	annotated, err := calculator.Annotate(ps.Bars, p.Config.IndicatorParams())
	if err != nil {
		return fail(model.OutcomeError, err)
	}
	usable, err := calculator.Truncate(annotated)
	if err != nil {
		return fail(model.OutcomeInsufficientHistory, err)
	}
	sigs, err := strategy.Generate(usable, p.Config.Thresholds())
	if err != nil {
		return fail(model.OutcomeError, err)
	}
	out.Series = sigs

	res, err := backtest.Run(symbol, sigs, p.Config.BacktestConfig())
	if err != nil {
		if errors.Is(err, backtest.ErrNoTrades) {
			out.Status = model.OutcomeNoTrades
			log.Printf("[INFO] %s: no trades executed over %d bars", symbol, len(sigs))
			return out
		}
		return fail(model.OutcomeError, err)
	}
	out.Result = res
	out.Status = model.OutcomeOK

	buys, sells := strategy.CountSignals(sigs)
	openNote := ""
	if res.OpenPosition != nil {
		openNote = fmt.Sprintf(", open %d @ %.2f", res.OpenPosition.Shares, res.OpenPosition.EntryPrice)
	}
	log.Printf("[INFO] %s: %d bars, %d buy / %d sell signals, %d trades, win rate %.1f%%, P&L %.2f, return %.2f%%%s",
		symbol, len(sigs), buys, sells, res.TotalTrades, res.WinRate*100, res.TotalPnL, res.TotalReturn, openNote)
	return out
}

func (p *Pipeline) train(series map[string][]model.SignalBar) (*predictor.ForestModel, error) {
	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var samples []predictor.Sample
	for _, sym := range symbols {
		samples = append(samples, predictor.BuildDataset(series[sym])...)
	}
	m, err := predictor.Train(samples, p.Config.Predictor.TestSize, p.Config.Predictor.Seed)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] predictor trained on %d samples, holdout accuracy %.1f%%", m.TrainSize, m.Accuracy*100)
	return m, nil
}

func (p *Pipeline) record(runID string, report *model.Report) {
	if err := p.Recorder.RecordSignals(runID, report.Signals); err != nil {
		log.Printf("[ERROR] record signals: %v", err)
	}
	symbols := make([]string, 0, len(report.Backtests))
	for sym := range report.Backtests {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		if err := p.Recorder.RecordBacktest(runID, report.Backtests[sym]); err != nil {
			log.Printf("[ERROR] record backtest %s: %v", sym, err)
		}
	}
	if err := p.Recorder.RecordAnalytics(report.Summary); err != nil {
		log.Printf("[ERROR] record analytics: %v", err)
	}
}

func (p *Pipeline) notify(ctx context.Context, text string) {
	if p.Notifier == nil || text == "" {
		return
	}
	if err := p.Notifier.Notify(ctx, text); err != nil {
		p.Metrics.NotificationsFailed.Inc()
		log.Printf("[ERROR] send notification: %v", err)
	}
}

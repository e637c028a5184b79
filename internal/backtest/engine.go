package backtest

import (
	"errors"
	"fmt"

	"AlgoSentinel/internal/model"
)

var (
	// ErrNoTrades means the replay completed without a single closed round trip.
	// It is distinct from a result whose P&L happens to be zero.
	ErrNoTrades = errors.New("no trades executed")
	// ErrEmptySeries means there were no bars to replay.
	ErrEmptySeries = errors.New("empty signal series")
)

// Simulate folds the account over bars in order and returns the final state and the closed trades.
func Simulate(bars []model.SignalBar, cfg Config) (Account, []model.Trade) {
	acct := NewAccount(cfg.InitialCapital)
	var trades []model.Trade
	for _, bar := range bars {
		var closed *model.Trade
		acct, closed = acct.Step(bar, cfg)
		if closed != nil {
			trades = append(trades, *closed)
		}
	}
	return acct, trades
}

// Run replays one instrument. A position still open after the last bar is valued at
// the last close in FinalValue and TotalReturn but is not a Trade and does not count
// toward the trade statistics.
func Run(symbol string, bars []model.SignalBar, cfg Config) (*model.BacktestResult, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("backtest %s: %w", symbol, ErrEmptySeries)
	}
	acct, trades := Simulate(bars, cfg)
	if len(trades) == 0 {
		return nil, fmt.Errorf("backtest %s: %w", symbol, ErrNoTrades)
	}
	finalValue := acct.Value(bars[len(bars)-1].Close)
	res := Summarize(symbol, trades, cfg.InitialCapital, finalValue)
	if acct.Position != nil {
		open := *acct.Position
		res.OpenPosition = &open
	}
	return res, nil
}

// Summarize derives the result statistics from a trade ledger. Calling it twice with
// the same inputs yields identical values.
func Summarize(symbol string, trades []model.Trade, initialCapital, finalValue float64) *model.BacktestResult {
	ledger := make([]model.Trade, len(trades))
	copy(ledger, trades)

	res := &model.BacktestResult{
		Symbol:         symbol,
		Trades:         ledger,
		TotalTrades:    len(ledger),
		InitialCapital: initialCapital,
		FinalValue:     finalValue,
	}
	for _, t := range ledger {
		res.TotalPnL += t.PnL
		if t.PnL > 0 {
			res.WinningTrades++
		}
	}
	if res.TotalTrades > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(res.TotalTrades)
	}
	res.TotalReturn = (finalValue - initialCapital) / initialCapital * 100
	return res
}

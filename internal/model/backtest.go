package model

import "time"

// Position is an open long holding inside the simulator.
type Position struct {
	EntryDate  time.Time `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"`
	Shares     int64     `json:"shares"`
}

// Trade is a closed round trip. Never mutated after creation.
type Trade struct {
	EntryDate  time.Time `json:"entry_date"`
	ExitDate   time.Time `json:"exit_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Shares     int64     `json:"shares"`
	PnL        float64   `json:"pnl"`
	PnLPercent float64   `json:"pnl_percent"`
}

// BacktestResult summarises one instrument's simulated trades.
type BacktestResult struct {
	Symbol         string    `json:"symbol"`
	Trades         []Trade   `json:"trades"`
	TotalTrades    int       `json:"total_trades"`
	WinningTrades  int       `json:"winning_trades"`
	WinRate        float64   `json:"win_rate"` // 0..1
	TotalPnL       float64   `json:"total_pnl"`
	InitialCapital float64   `json:"initial_capital"`
	FinalValue     float64   `json:"final_value"`
	TotalReturn    float64   `json:"total_return"` // percent
	OpenPosition   *Position `json:"open_position,omitempty"`
}

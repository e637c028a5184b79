package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"AlgoSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run results to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the API can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_log (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			run_id       TEXT NOT NULL,
			symbol       TEXT NOT NULL,
			bar_date     TEXT NOT NULL,
			signal       TEXT NOT NULL,
			price        REAL,
			rsi          REAL,
			ma_short     REAL,
			ma_long      REAL,
			momentum     REAL,
			volume_ratio REAL,
			ml_label     TEXT,
			ml_confidence REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_symbol ON signal_log(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_summary (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			run_id          TEXT NOT NULL,
			symbol          TEXT NOT NULL,
			total_trades    INTEGER,
			winning_trades  INTEGER,
			win_rate        REAL,
			total_pnl       REAL,
			initial_capital REAL,
			final_value     REAL,
			total_return    REAL,
			open_shares     INTEGER,
			open_entry_price REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_run ON backtest_summary(run_id)`,

		`CREATE TABLE IF NOT EXISTS backtest_trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			entry_date  TEXT,
			exit_date   TEXT,
			entry_price REAL,
			exit_price  REAL,
			shares      INTEGER,
			pnl         REAL,
			pnl_percent REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON backtest_trades(run_id, symbol)`,

		`CREATE TABLE IF NOT EXISTS run_analytics (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL UNIQUE,
			started_at     INTEGER,
			finished_at    INTEGER,
			instruments    INTEGER,
			usable         INTEGER,
			total_trades   INTEGER,
			total_pnl      REAL,
			active_signals INTEGER,
			ml_accuracy    REAL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignals(runID string, signals []model.CurrentSignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, s := range signals {
		if !s.Signal.Actionable() {
			continue
		}
		var label sql.NullString
		var conf sql.NullFloat64
		if s.Prediction != nil {
			label = sql.NullString{String: s.Prediction.Label, Valid: true}
			conf = sql.NullFloat64{Float64: s.Prediction.Confidence, Valid: true}
		}
		if _, err := r.db.Exec(`INSERT INTO signal_log
			(timestamp, run_id, symbol, bar_date, signal, price, rsi, ma_short, ma_long,
			 momentum, volume_ratio, ml_label, ml_confidence)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			now, runID, s.Symbol, s.Date.Format("2006-01-02"), string(s.Signal),
			s.Price, s.RSI, s.MAShort, s.MALong, s.Momentum, s.VolumeRatio, label, conf,
		); err != nil {
			return fmt.Errorf("insert signal %s: %w", s.Symbol, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBacktest(runID string, res *model.BacktestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var openShares sql.NullInt64
	var openPrice sql.NullFloat64
	if p := res.OpenPosition; p != nil {
		openShares = sql.NullInt64{Int64: p.Shares, Valid: true}
		openPrice = sql.NullFloat64{Float64: p.EntryPrice, Valid: true}
	}
	if _, err := tx.Exec(`INSERT INTO backtest_summary
		(timestamp, run_id, symbol, total_trades, winning_trades, win_rate, total_pnl,
		 initial_capital, final_value, total_return, open_shares, open_entry_price)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), runID, res.Symbol, res.TotalTrades, res.WinningTrades, res.WinRate,
		res.TotalPnL, res.InitialCapital, res.FinalValue, res.TotalReturn, openShares, openPrice,
	); err != nil {
		return fmt.Errorf("insert backtest summary: %w", err)
	}

	for _, t := range res.Trades {
		if _, err := tx.Exec(`INSERT INTO backtest_trades
			(run_id, symbol, entry_date, exit_date, entry_price, exit_price, shares, pnl, pnl_percent)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID, res.Symbol, t.EntryDate.Format("2006-01-02"), t.ExitDate.Format("2006-01-02"),
			t.EntryPrice, t.ExitPrice, t.Shares, t.PnL, t.PnLPercent,
		); err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordAnalytics(s model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var acc sql.NullFloat64
	if s.MLAccuracy != nil {
		acc = sql.NullFloat64{Float64: *s.MLAccuracy, Valid: true}
	}
	_, err := r.db.Exec(`INSERT OR REPLACE INTO run_analytics
		(run_id, started_at, finished_at, instruments, usable, total_trades, total_pnl, active_signals, ml_accuracy)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		s.RunID, s.StartedAt.Unix(), s.FinishedAt.Unix(), s.Instruments, s.Usable,
		s.TotalTrades, s.TotalPnL, s.ActiveSignals, acc,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

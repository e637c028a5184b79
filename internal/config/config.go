package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"AlgoSentinel/internal/backtest"
	"AlgoSentinel/internal/calculator"
	"AlgoSentinel/internal/strategy"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Symbols  []string `yaml:"symbols"`
	Strategy struct {
		RSIPeriod        int     `yaml:"rsi_period"`
		MAShortPeriod    int     `yaml:"ma_short_period"`
		MALongPeriod     int     `yaml:"ma_long_period"`
		MomentumFast     int     `yaml:"momentum_fast"`
		MomentumSlow     int     `yaml:"momentum_slow"`
		VolumePeriod     int     `yaml:"volume_period"`
		RSIBuyThreshold  float64 `yaml:"rsi_buy_threshold"`
		RSISellThreshold float64 `yaml:"rsi_sell_threshold"`
	} `yaml:"strategy"`
	Portfolio struct {
		InitialCapital float64 `yaml:"initial_capital"`
		PositionSize   float64 `yaml:"position_size"`
	} `yaml:"portfolio"`
	DataSource struct {
		LookbackDays int    `yaml:"lookback_days"`
		Start        string `yaml:"start"` // YYYY-MM-DD, overrides lookback_days
		End          string `yaml:"end"`   // YYYY-MM-DD, defaults to today
		Mock         bool   `yaml:"mock"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Predictor struct {
		Enabled  bool    `yaml:"enabled"`
		TestSize float64 `yaml:"test_size"`
		Seed     int64   `yaml:"seed"`
	} `yaml:"predictor"`
	Workers    int    `yaml:"workers"`
	ReportFile string `yaml:"report_file"`
	Proxy      string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// Keys absent from the file keep their defaults; keys present are taken as written
// and left for Validate to judge.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("INITIAL_CAPITAL"); v != "" {
		capital, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("INITIAL_CAPITAL: %w", err)
		}
		cfg.Portfolio.InitialCapital = capital
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("TRACING_ENABLED: %w", err)
		}
		cfg.Tracing.Enabled = b
	}

	return cfg, nil
}

// Default returns a configuration with every default applied and no file or environment input.
func Default() *Config {
	c := &Config{}
	c.Symbols = []string{"SBIN.NS", "TCS.NS", "INFY.NS"}
	c.Strategy.RSIPeriod = 14
	c.Strategy.MAShortPeriod = 20
	c.Strategy.MALongPeriod = 50
	c.Strategy.MomentumFast = 12
	c.Strategy.MomentumSlow = 26
	c.Strategy.VolumePeriod = 20
	c.Strategy.RSIBuyThreshold = 30
	c.Strategy.RSISellThreshold = 70
	c.Portfolio.InitialCapital = 100000
	c.Portfolio.PositionSize = 0.10
	c.DataSource.LookbackDays = 180
	c.Schedule.DailyCron = "0 30 16 * * 1-5"
	c.Database.SQLitePath = "data/algo_sentinel.db"
	c.Predictor.Enabled = true
	c.Predictor.TestSize = 0.2
	c.Predictor.Seed = 42
	c.Workers = 4
	c.ReportFile = "data/last_report.json"
	return c
}

// Validate checks ranges before any computation. Out-of-range values are never clamped.
func (c *Config) Validate() error {
	s := c.Strategy
	periods := []struct {
		name string
		v    int
	}{
		{"strategy.rsi_period", s.RSIPeriod},
		{"strategy.ma_short_period", s.MAShortPeriod},
		{"strategy.ma_long_period", s.MALongPeriod},
		{"strategy.momentum_fast", s.MomentumFast},
		{"strategy.momentum_slow", s.MomentumSlow},
		{"strategy.volume_period", s.VolumePeriod},
	}
	for _, p := range periods {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.v)
		}
	}
	if s.MAShortPeriod >= s.MALongPeriod {
		return fmt.Errorf("%w: strategy.ma_short_period must be less than ma_long_period", ErrInvalidConfig)
	}
	if s.MomentumFast >= s.MomentumSlow {
		return fmt.Errorf("%w: strategy.momentum_fast must be less than momentum_slow", ErrInvalidConfig)
	}
	if s.RSIBuyThreshold <= 0 || s.RSIBuyThreshold >= 100 {
		return fmt.Errorf("%w: strategy.rsi_buy_threshold must be in (0,100), got %v", ErrInvalidConfig, s.RSIBuyThreshold)
	}
	if s.RSISellThreshold <= 0 || s.RSISellThreshold >= 100 {
		return fmt.Errorf("%w: strategy.rsi_sell_threshold must be in (0,100), got %v", ErrInvalidConfig, s.RSISellThreshold)
	}
	if c.Portfolio.InitialCapital <= 0 {
		return fmt.Errorf("%w: portfolio.initial_capital must be positive", ErrInvalidConfig)
	}
	if c.Portfolio.PositionSize <= 0 || c.Portfolio.PositionSize > 1 {
		return fmt.Errorf("%w: portfolio.position_size must be in (0,1], got %v", ErrInvalidConfig, c.Portfolio.PositionSize)
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("%w: at least one symbol is required", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if c.Predictor.TestSize <= 0 || c.Predictor.TestSize >= 1 {
		return fmt.Errorf("%w: predictor.test_size must be in (0,1)", ErrInvalidConfig)
	}
	if _, _, err := c.DateRange(time.Now()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// IndicatorParams maps the strategy section to calculator parameters.
func (c *Config) IndicatorParams() calculator.Params {
	return calculator.Params{
		RSIPeriod:     c.Strategy.RSIPeriod,
		MAShortPeriod: c.Strategy.MAShortPeriod,
		MALongPeriod:  c.Strategy.MALongPeriod,
		MomentumFast:  c.Strategy.MomentumFast,
		MomentumSlow:  c.Strategy.MomentumSlow,
		VolumePeriod:  c.Strategy.VolumePeriod,
	}
}

// Thresholds maps the strategy section to signal thresholds.
func (c *Config) Thresholds() strategy.Thresholds {
	return strategy.Thresholds{
		RSIBuy:  c.Strategy.RSIBuyThreshold,
		RSISell: c.Strategy.RSISellThreshold,
	}
}

// BacktestConfig maps the portfolio section to simulator settings.
func (c *Config) BacktestConfig() backtest.Config {
	return backtest.Config{
		InitialCapital: c.Portfolio.InitialCapital,
		PositionSize:   c.Portfolio.PositionSize,
	}
}

// DateRange resolves the fetch window relative to now.
func (c *Config) DateRange(now time.Time) (start, end time.Time, err error) {
	end = now
	if c.DataSource.End != "" {
		end, err = time.Parse("2006-01-02", c.DataSource.End)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data_source.end: %w", err)
		}
	}
	start = end.AddDate(0, 0, -c.DataSource.LookbackDays)
	if c.DataSource.Start != "" {
		start, err = time.Parse("2006-01-02", c.DataSource.Start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data_source.start: %w", err)
		}
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, errors.New("data range start must be before end")
	}
	return start, end, nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

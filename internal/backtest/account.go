package backtest

import (
	"math"

	"AlgoSentinel/internal/model"
)

// Config sizes the simulated account.
type Config struct {
	InitialCapital float64
	PositionSize   float64 // fraction of equity committed per entry, 0 < x <= 1
}

// DefaultConfig returns 100000 of capital and 10% sizing.
func DefaultConfig() Config {
	return Config{InitialCapital: 100000, PositionSize: 0.10}
}

// Account is the simulator state threaded through the bar fold.
// A nil Position is FLAT; a non-nil Position is LONG. There is never more than one.
type Account struct {
	Cash     float64
	Position *model.Position
}

// NewAccount returns a FLAT account holding only cash.
func NewAccount(capital float64) Account {
	return Account{Cash: capital}
}

// Long reports whether a position is open.
func (a Account) Long() bool { return a.Position != nil }

// Shares returns the number of shares held, 0 when FLAT.
func (a Account) Shares() int64 {
	if a.Position == nil {
		return 0
	}
	return a.Position.Shares
}

// Value marks the account to market at price.
func (a Account) Value(price float64) float64 {
	return a.Cash + float64(a.Shares())*price
}

// Step applies one bar to the account and returns the next state.
// A non-nil Trade is returned only when the bar closes a position.
//
//	FLAT + BUY  -> LONG if at least one share is affordable, else FLAT
//	LONG + SELL -> FLAT, emits a Trade
//	anything else is a no-op
func (a Account) Step(bar model.SignalBar, cfg Config) (Account, *model.Trade) {
	price := bar.Close
	switch {
	case bar.Signal == model.SignalBuy && !a.Long():
		budget := a.Value(price) * cfg.PositionSize
		shares := int64(math.Floor(budget / price))
		cost := float64(shares) * price
		if shares <= 0 || a.Cash < cost {
			return a, nil
		}
		return Account{
			Cash: a.Cash - cost,
			Position: &model.Position{
				EntryDate:  bar.Date,
				EntryPrice: price,
				Shares:     shares,
			},
		}, nil

	case bar.Signal == model.SignalSell && a.Long():
		pos := a.Position
		proceeds := float64(pos.Shares) * price
		cost := float64(pos.Shares) * pos.EntryPrice
		pnl := proceeds - cost
		trade := &model.Trade{
			EntryDate:  pos.EntryDate,
			ExitDate:   bar.Date,
			EntryPrice: pos.EntryPrice,
			ExitPrice:  price,
			Shares:     pos.Shares,
			PnL:        pnl,
			PnLPercent: pnl / cost * 100,
		}
		return Account{Cash: a.Cash + proceeds}, trade
	}
	return a, nil
}

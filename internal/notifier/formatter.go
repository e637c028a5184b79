package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"AlgoSentinel/internal/model"
)

// Alerts keeps only the records worth notifying: BUY and SELL. HOLD never notifies.
func Alerts(signals []model.CurrentSignal) []model.CurrentSignal {
	var out []model.CurrentSignal
	for _, s := range signals {
		if s.Signal.Actionable() {
			out = append(out, s)
		}
	}
	return out
}

// FormatSignalAlert formats one BUY/SELL record. Returns "" for HOLD.
func FormatSignalAlert(sig model.CurrentSignal) string {
	if !sig.Signal.Actionable() {
		return ""
	}
	emoji := "🚀"
	if sig.Signal == model.SignalSell {
		emoji = "💰"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>TRADING SIGNAL</b> %s\n\n", emoji, emoji))
	b.WriteString(fmt.Sprintf("<b>Stock:</b> %s\n", html.EscapeString(sig.Symbol)))
	b.WriteString(fmt.Sprintf("<b>Signal:</b> %s\n", sig.Signal))
	b.WriteString(fmt.Sprintf("<b>Price:</b> ₹%.2f\n", sig.Price))
	b.WriteString(fmt.Sprintf("<b>RSI:</b> %.1f\n", sig.RSI))
	b.WriteString(fmt.Sprintf("<b>MA20/MA50:</b> %.2f / %.2f\n", sig.MAShort, sig.MALong))
	if sig.Prediction != nil {
		b.WriteString(fmt.Sprintf("<b>ML:</b> %s (%.0f%%)\n", sig.Prediction.Label, sig.Prediction.Confidence*100))
	}
	b.WriteString(fmt.Sprintf("\n<b>Bar:</b> %s", sig.Date.Format("2006-01-02")))
	return b.String()
}

// FormatRunSummary formats the end-of-run digest.
func FormatRunSummary(s model.RunSummary) string {
	status := "⚪"
	if s.TotalPnL > 0 {
		status = "🟢"
	} else if s.TotalPnL < 0 {
		status = "🔴"
	}
	acc := "N/A"
	if s.MLAccuracy != nil {
		acc = fmt.Sprintf("%.1f%%", *s.MLAccuracy*100)
	}

	var b strings.Builder
	b.WriteString("📊 <b>TRADING SUMMARY</b> 📊\n\n")
	b.WriteString(fmt.Sprintf("<b>Date:</b> %s\n", s.FinishedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("<b>Stocks:</b> %d/%d usable\n", s.Usable, s.Instruments))
	b.WriteString(fmt.Sprintf("<b>Total Trades:</b> %d\n", s.TotalTrades))
	b.WriteString(fmt.Sprintf("<b>Total P&amp;L:</b> %s ₹%.2f\n\n", status, s.TotalPnL))
	b.WriteString(fmt.Sprintf("<b>ML Accuracy:</b> %s\n", acc))
	b.WriteString(fmt.Sprintf("<b>Active Signals:</b> %d", s.ActiveSignals))
	return b.String()
}

// FormatError formats a system error alert. Long messages are cut to 200 runes.
func FormatError(err error) string {
	msg := []rune(err.Error())
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Sprintf("🚨 <b>SYSTEM ERROR</b> 🚨\n\n<b>Time:</b> %s\n<b>Error:</b> %s",
		time.Now().Format("15:04:05"), html.EscapeString(string(msg)))
}

// FormatBacktestReport lists per-symbol backtest results in symbol order.
func FormatBacktestReport(symbols []string, results map[string]*model.BacktestResult) string {
	var b strings.Builder
	b.WriteString("📈 <b>BACKTEST RESULTS</b>\n\n")
	if len(results) == 0 {
		b.WriteString("No trades executed.")
		return b.String()
	}
	for _, sym := range symbols {
		r, ok := results[sym]
		if !ok {
			b.WriteString(fmt.Sprintf("<b>%s</b>: no trades\n", html.EscapeString(sym)))
			continue
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>: %d trades, win %.1f%%, P&amp;L ₹%.2f, return %+.2f%%",
			html.EscapeString(sym), r.TotalTrades, r.WinRate*100, r.TotalPnL, r.TotalReturn))
		if r.OpenPosition != nil {
			b.WriteString(fmt.Sprintf(" (open: %d @ %.2f)", r.OpenPosition.Shares, r.OpenPosition.EntryPrice))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSignals lists all current signals, used by the /signals command.
func FormatSignals(signals []model.CurrentSignal) string {
	if len(signals) == 0 {
		return "No signals yet. Send /run to start a pass."
	}
	var b strings.Builder
	b.WriteString("📋 <b>CURRENT SIGNALS</b>\n\n")
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("%s: <b>%s</b> @ ₹%.2f (RSI %.1f)", html.EscapeString(s.Symbol), s.Signal, s.Price, s.RSI))
		if s.Prediction != nil {
			b.WriteString(fmt.Sprintf(" ML %s %.0f%%", s.Prediction.Label, s.Prediction.Confidence*100))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// HelpText lists the supported bot commands.
func HelpText() string {
	return "Available commands:\n• /signals - latest signal per stock\n• /backtest - latest backtest results\n• /run - run the pipeline now\n• /help - this message"
}

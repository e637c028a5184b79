package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"AlgoSentinel/internal/model"
	"AlgoSentinel/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Runner executes one pipeline pass and exposes the latest result.
type Runner interface {
	Run(ctx context.Context) (*model.Report, error)
	Latest() *model.Report
}

// Scheduler manages cron tasks and bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Notifier notifier.Notifier
	Symbols  []string
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, n notifier.Notifier, symbols []string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Notifier: n,
		Symbols:  symbols,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily pipeline task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily pipeline")
	if _, err := s.Runner.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] daily pipeline: %v", err)
		s.trySend(notifier.FormatError(err))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	// Telegram appends @botname in group chats.
	cmd := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	switch cmd {
	case "/signals":
		report := s.Runner.Latest()
		if report == nil {
			return notifier.FormatSignals(nil)
		}
		return notifier.FormatSignals(report.Signals)
	case "/backtest":
		report := s.Runner.Latest()
		if report == nil {
			return notifier.FormatBacktestReport(s.Symbols, nil)
		}
		return notifier.FormatBacktestReport(s.Symbols, report.Backtests)
	case "/run":
		go s.dailyTask()
		return "⏳ Pipeline started, alerts and summary will follow."
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockPulse/internal/app"
	"StockPulse/internal/config"
	"StockPulse/internal/notifier"
)

// Evaluator runs one price-change evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, req app.Request) (*app.Result, error)
}

// Reporter receives run summaries. Telegram in practice; may be nil.
type Reporter interface {
	Send(ctx context.Context, to, text string) error
}

// Scheduler runs the watchlist on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Evaluator Evaluator
	Watchlist []config.WatchEntry
	Reporter  Reporter
	Log       *zap.Logger
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ev Evaluator, watchlist []config.WatchEntry, reporter Reporter, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Evaluator: ev,
		Watchlist: watchlist,
		Reporter:  reporter,
		Log:       log,
		Ctx:       ctx,
	}
}

// Register adds the daily watchlist job.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("watchlist", len(s.Watchlist)))
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunDailyNow executes the watchlist immediately (RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.Log.Info("running daily watchlist", zap.Int("entries", len(s.Watchlist)))
	for _, w := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		res, err := s.Evaluator.Evaluate(s.Ctx, app.Request{
			Symbol:      w.Symbol,
			CompanyName: w.Company,
			PhoneNumber: w.Phone,
			Action:      actionOrDefault(w.Action),
		})
		if err != nil {
			kind := app.Classify(err)
			s.Log.Error("watchlist entry failed", zap.String("symbol", w.Symbol), zap.String("kind", kind.String()), zap.Error(err))
			s.report(fmt.Sprintf("❌ %s %s: %v", w.Symbol, kind.Title(), err))
			continue
		}
		if res.Decision.ShouldNotify {
			s.report(notifier.FormatDecision(res.Decision))
		}
	}
}

func actionOrDefault(a string) string {
	if a == "" {
		return "notify"
	}
	return a
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Group chats address commands as /check@BotName.
	cmd, _, _ := strings.Cut(fields[0], "@")

	switch strings.ToLower(cmd) {
	case "/check":
		if len(fields) < 3 {
			return "Usage: /check SYMBOL Company Name"
		}
		res, err := s.Evaluator.Evaluate(ctx, app.Request{
			Symbol:      fields[1],
			CompanyName: strings.Join(fields[2:], " "),
			Action:      "chart",
		})
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", app.Classify(err).Title(), err)
		}
		return formatCheckReply(res)
	default:
		return notifier.FormatHelp()
	}
}

func formatCheckReply(res *app.Result) string {
	var b strings.Builder
	b.WriteString(notifier.FormatDecision(res.Decision))
	for _, m := range res.Messages {
		b.WriteString("\n\n")
		b.WriteString(m)
	}
	if res.ChartPath != "" {
		b.WriteString(fmt.Sprintf("\n\nChart saved to %s", res.ChartPath))
	}
	return b.String()
}

func (s *Scheduler) report(text string) {
	if s.Reporter == nil {
		return
	}
	if err := s.Reporter.Send(s.Ctx, "", text); err != nil {
		s.Log.Error("send report", zap.Error(err))
	}
}

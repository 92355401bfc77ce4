// Package scheduler rescores the watchlist on a cron schedule and answers
// chat commands.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"WalletScore/internal/model"
	"WalletScore/internal/notifier"
	"WalletScore/internal/observability"
	"WalletScore/internal/pipeline"
	"WalletScore/internal/recorder"
	"WalletScore/internal/watchlist"

	"github.com/robfig/cron/v3"
)

const sendRetries = 3

// Scorer runs the scoring pipeline for one wallet.
type Scorer interface {
	Run(ctx context.Context, wallet string) (*model.Report, error)
}

// Sender delivers chat messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the watchlist rescoring task.
type Scheduler struct {
	Cron      *cron.Cron
	Scorer    Scorer
	Watchlist *watchlist.Manager
	Notifier  Sender
	Recorder  recorder.Recorder
	Metrics   *observability.Metrics
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. n, rec and m may be nil.
func NewScheduler(ctx context.Context, sc Scorer, wl *watchlist.Manager, n Sender, rec recorder.Recorder, m *observability.Metrics) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	m.SetWatchlistSize(wl.Len())
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Scorer:    sc,
		Watchlist: wl,
		Notifier:  n,
		Recorder:  rec,
		Metrics:   m,
		Ctx:       ctx,
	}
}

// Register adds the watchlist rescoring task.
func (s *Scheduler) Register(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunWatchNow rescores the watchlist immediately.
func (s *Scheduler) RunWatchNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	wallets := s.Watchlist.Wallets()
	log.Printf("[INFO] rescoring %d watched wallets", len(wallets))

	for _, w := range wallets {
		if s.Ctx.Err() != nil {
			log.Println("[WARN] watch task cancelled")
			return
		}
		report, err := s.Scorer.Run(s.Ctx, w)
		if err != nil {
			log.Printf("[ERROR] rescore %s: %v", w, err)
			continue
		}
		s.handleAlerts(s.Watchlist.Update(report))
	}
}

func (s *Scheduler) handleAlerts(alerts []watchlist.Alert) {
	for _, a := range alerts {
		evtType := recorder.EventGradeChange
		if a.Kind == watchlist.AlertMixer {
			evtType = recorder.EventMixerAlert
		}
		s.recordEvent(&recorder.WatchEvent{
			Wallet:    a.Wallet,
			EventType: evtType,
			OldGrade:  a.OldGrade,
			NewGrade:  a.NewGrade,
			Score:     a.Score,
		})
		s.trySend(notifier.FormatAlert(a))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	// Group chats send "/cmd@botname".
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case "/score":
		return s.scoreCommand(ctx, arg)
	case "/watch":
		return s.watchCommand(arg)
	case "/unwatch":
		return s.unwatchCommand(arg)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Watchlist.List())
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) scoreCommand(ctx context.Context, addr string) string {
	if addr == "" {
		return "Usage: /score &lt;address&gt;"
	}
	report, err := s.Scorer.Run(ctx, addr)
	switch {
	case errors.Is(err, pipeline.ErrInvalidAddress):
		return "❌ Invalid address"
	case err != nil:
		log.Printf("[ERROR] score command %s: %v", addr, err)
		return "❌ Scoring failed, try again later"
	}
	s.handleAlerts(s.Watchlist.Update(report))
	return notifier.FormatScoreReport(report)
}

func (s *Scheduler) watchCommand(addr string) string {
	added, err := s.Watchlist.Add(addr)
	switch {
	case errors.Is(err, pipeline.ErrInvalidAddress):
		return "❌ Invalid address"
	case err != nil:
		log.Printf("[ERROR] watch %s: %v", addr, err)
		return "❌ Could not update watchlist"
	case !added:
		return "Already watching " + strings.ToLower(addr)
	}
	s.Metrics.SetWatchlistSize(s.Watchlist.Len())
	s.recordEvent(&recorder.WatchEvent{Wallet: addr, EventType: recorder.EventWatch})
	return "👀 Now watching " + strings.ToLower(addr)
}

func (s *Scheduler) unwatchCommand(addr string) string {
	if addr == "" {
		return "Usage: /unwatch &lt;address&gt;"
	}
	removed, err := s.Watchlist.Remove(addr)
	switch {
	case err != nil:
		log.Printf("[ERROR] unwatch %s: %v", addr, err)
		return "❌ Could not update watchlist"
	case !removed:
		return "Not watching " + strings.ToLower(addr)
	}
	s.Metrics.SetWatchlistSize(s.Watchlist.Len())
	s.recordEvent(&recorder.WatchEvent{Wallet: addr, EventType: recorder.EventUnwatch})
	return "Stopped watching " + strings.ToLower(addr)
}

func (s *Scheduler) recordEvent(evt *recorder.WatchEvent) {
	if err := s.Recorder.RecordWatchEvent(evt); err != nil {
		log.Printf("[ERROR] record watch event: %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] notification (telegram disabled): %s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

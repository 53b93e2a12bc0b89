// Package scheduler runs the periodic ledger jobs: the overdue sweep and
// the due-payment reminder digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/ledger-service/internal/config"
	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Ledger is the part of the service the jobs need
type Ledger interface {
	SweepOverdue(ctx context.Context) (int64, error)
	UpcomingDue(ctx context.Context, userID string, days int) ([]models.ViewItem, error)
}

// Notifier delivers reminder digests
type Notifier interface {
	SendDueReminder(to string, days int, items []models.ViewItem) error
}

// jobTimeout bounds a single job run
const jobTimeout = 2 * time.Minute

// Scheduler owns the cron runner and its jobs
type Scheduler struct {
	cron     *cron.Cron
	ledger   Ledger
	notifier Notifier
	cfg      *config.Config
	log      *logrus.Logger
}

// NewScheduler registers the jobs described by cfg. The reminder job is
// only registered when reminders are enabled.
func NewScheduler(cfg *config.Config, ledger Ledger, notifier Notifier, log *logrus.Logger) (*Scheduler, error) {
	cronLog := cron.PrintfLogger(log)
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ledger:   ledger,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}

	if _, err := s.cron.AddFunc(cfg.OverdueSweepSpec, s.runSweep); err != nil {
		return nil, fmt.Errorf("invalid OVERDUE_SWEEP_SPEC %q: %w", cfg.OverdueSweepSpec, err)
	}
	if cfg.RemindersEnabled() {
		if _, err := s.cron.AddFunc(cfg.ReminderSpec, s.runReminders); err != nil {
			return nil, fmt.Errorf("invalid REMINDER_SPEC %q: %w", cfg.ReminderSpec, err)
		}
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.log.Infof("Scheduler started with %d jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.SweepOverdue(ctx); err != nil {
		s.log.Errorf("Overdue sweep job failed: %v", err)
	}
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.SendReminders(ctx); err != nil {
		s.log.Errorf("Reminder job failed: %v", err)
	}
}

// SweepOverdue runs the overdue sweep once
func (s *Scheduler) SweepOverdue(ctx context.Context) (int64, error) {
	return s.ledger.SweepOverdue(ctx)
}

// SendReminders builds the configured user's upcoming obligations and mails them
func (s *Scheduler) SendReminders(ctx context.Context) error {
	items, err := s.ledger.UpcomingDue(ctx, s.cfg.ReminderUserID, s.cfg.ReminderDays)
	if err != nil {
		return fmt.Errorf("failed to list due entries: %w", err)
	}
	s.log.WithField("user_id", s.cfg.ReminderUserID).Debugf("%d entries due", len(items))
	return s.notifier.SendDueReminder(s.cfg.ReminderEmail, s.cfg.ReminderDays, items)
}

package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Dan9191/ledger-service/internal/config"
	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/sirupsen/logrus"
)

type fakeLedger struct {
	swept   int
	dueUser string
	dueDays int
	due     []models.ViewItem
	dueErr  error
}

func (f *fakeLedger) SweepOverdue(ctx context.Context) (int64, error) {
	f.swept++
	return 3, nil
}

func (f *fakeLedger) UpcomingDue(ctx context.Context, userID string, days int) ([]models.ViewItem, error) {
	f.dueUser, f.dueDays = userID, days
	return f.due, f.dueErr
}

type fakeNotifier struct {
	to    string
	items int
}

func (f *fakeNotifier) SendDueReminder(to string, days int, items []models.ViewItem) error {
	f.to, f.items = to, len(items)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		OverdueSweepSpec: "@daily",
		ReminderSpec:     "0 8 * * *",
		ReminderDays:     5,
		ReminderUserID:   "u1",
		ReminderEmail:    "owner@example.com",
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	s, err := NewScheduler(testConfig(), &fakeLedger{}, &fakeNotifier{}, quietLogger())
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	if n := len(s.cron.Entries()); n != 2 {
		t.Errorf("expected 2 jobs, got %d", n)
	}

	cfg := testConfig()
	cfg.ReminderUserID, cfg.ReminderEmail = "", ""
	s, err = NewScheduler(cfg, &fakeLedger{}, &fakeNotifier{}, quietLogger())
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Errorf("expected only the sweep job, got %d", n)
	}
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg := testConfig()
	cfg.OverdueSweepSpec = "every now and then"
	if _, err := NewScheduler(cfg, &fakeLedger{}, &fakeNotifier{}, quietLogger()); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestSendReminders(t *testing.T) {
	ledger := &fakeLedger{due: make([]models.ViewItem, 2)}
	notifier := &fakeNotifier{}
	s, _ := NewScheduler(testConfig(), ledger, notifier, quietLogger())

	if err := s.SendReminders(context.Background()); err != nil {
		t.Fatalf("SendReminders failed: %v", err)
	}
	if ledger.dueUser != "u1" || ledger.dueDays != 5 {
		t.Errorf("unexpected query %s/%d", ledger.dueUser, ledger.dueDays)
	}
	if notifier.to != "owner@example.com" || notifier.items != 2 {
		t.Errorf("unexpected notification %+v", notifier)
	}

	ledger.dueErr = errors.New("fetch failure")
	if err := s.SendReminders(context.Background()); err == nil {
		t.Error("expected an error when the view cannot be built")
	}
}

func TestSweepOverdue(t *testing.T) {
	ledger := &fakeLedger{}
	s, _ := NewScheduler(testConfig(), ledger, &fakeNotifier{}, quietLogger())

	n, err := s.SweepOverdue(context.Background())
	if err != nil || n != 3 || ledger.swept != 1 {
		t.Errorf("SweepOverdue = %d, %v (swept %d)", n, err, ledger.swept)
	}
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dan9191/ledger-service/internal/models"
)

func TestComplete_ContractMaterializesOnce(t *testing.T) {
	store := newFakeStore()
	store.PutContract(testUser, acmeContract())
	svc := newTestService(store)
	ctx := context.Background()

	res, err := svc.Complete(ctx, testUser, "contract-2024-02-c1")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if store.writeCount() != 1 {
		t.Fatalf("expected 1 write, got %d", store.writeCount())
	}
	e := res.Entry
	if e == nil || e.Status != models.StatusCompleted || e.Category != models.ContractCategory ||
		e.ClientID != "c1" || e.Date != "2024-02-01" || e.Description != "Contrato mensal - Acme" {
		t.Fatalf("unexpected materialized entry %+v", e)
	}

	view, err := svc.GetLedgerView(ctx, testUser, Scope{})
	if err != nil {
		t.Fatalf("GetLedgerView failed: %v", err)
	}
	feb := contractItems(view, "c1")["2024-02"]
	if len(feb) != 1 || feb[0].Virtual() || feb[0].Entry.ID != e.ID {
		t.Fatalf("expected 2024-02 to be the materialized entry only, got %+v", feb)
	}

	again, err := svc.Complete(ctx, testUser, "contract-2024-02-c1")
	if err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if store.writeCount() != 1 {
		t.Errorf("second Complete wrote again: %d writes", store.writeCount())
	}
	if again.Entry == nil || again.Entry.ID != e.ID {
		t.Errorf("expected existing entry, got %+v", again.Entry)
	}
}

func TestComplete_ContractUnknownPeriodOrClient(t *testing.T) {
	store := newFakeStore()
	store.PutContract(testUser, acmeContract())
	svc := newTestService(store)
	ctx := context.Background()

	for _, id := range []string{"contract-2030-01-c1", "contract-2024-02-c9"} {
		if _, err := svc.Complete(ctx, testUser, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", id, err)
		}
	}
	if store.writeCount() != 0 {
		t.Errorf("expected no writes, got %d", store.writeCount())
	}
}

func TestComplete_RecurrenceRejected(t *testing.T) {
	store := newFakeStore()
	store.Seed(rentAnchor())
	svc := newTestService(store)

	_, err := svc.Complete(context.Background(), testUser, "t1-recurrence-3")
	if !errors.Is(err, ErrInvalidMaterialization) {
		t.Fatalf("expected ErrInvalidMaterialization, got %v", err)
	}
	if store.writeCount() != 0 {
		t.Errorf("expected zero writes, got %d", store.writeCount())
	}
}

func TestSetPendingAndOverdue_VirtualRejected(t *testing.T) {
	store := newFakeStore()
	store.Seed(rentAnchor())
	store.PutContract(testUser, acmeContract())
	svc := newTestService(store)
	ctx := context.Background()

	commands := map[string]func(context.Context, string, string) (*CommandResult, error){
		"pending": svc.SetPending,
		"overdue": svc.SetOverdue,
	}
	for name, cmd := range commands {
		for _, id := range []string{"t1-recurrence-1", "contract-2024-02-c1"} {
			if _, err := cmd(ctx, testUser, id); !errors.Is(err, ErrInvalidMaterialization) {
				t.Errorf("%s %s: expected ErrInvalidMaterialization, got %v", name, id, err)
			}
		}
	}
	if store.writeCount() != 0 {
		t.Errorf("expected zero writes, got %d", store.writeCount())
	}
}

func TestRealEntryCommands(t *testing.T) {
	store := newFakeStore()
	entry := rentAnchor()
	entry.Status = models.StatusPending
	store.Seed(entry)
	svc := newTestService(store)
	ctx := context.Background()

	steps := []struct {
		run  func(context.Context, string, string) (*CommandResult, error)
		want models.Status
	}{
		{svc.SetOverdue, models.StatusOverdue},
		{svc.Complete, models.StatusCompleted},
		{svc.SetPending, models.StatusPending},
	}
	for _, step := range steps {
		res, err := step.run(ctx, testUser, "t1")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if res.Status != step.want || res.Entry != nil {
			t.Errorf("unexpected result %+v", res)
		}
		got, _ := store.QueryEntries(ctx, models.EntryFilter{UserID: testUser})
		if got[0].Status != step.want {
			t.Errorf("status = %s, want %s", got[0].Status, step.want)
		}
	}

	if _, err := svc.Complete(ctx, testUser, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Complete(ctx, "someone-else", "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign user: expected ErrNotFound, got %v", err)
	}
}

func TestCommand_MalformedID(t *testing.T) {
	svc := newTestService(newFakeStore())
	if _, err := svc.Complete(context.Background(), testUser, "t1-recurrence-zero"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCommand_WriteFailureReleasesGuard(t *testing.T) {
	store := newFakeStore()
	store.PutContract(testUser, acmeContract())
	store.insertErr = errors.New("disk full")
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Complete(ctx, testUser, "contract-2024-02-c1"); !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
	if svc.inflight.Busy(testUser + "/contract-2024-02-c1") {
		t.Fatal("guard not released after failure")
	}

	store.insertErr = nil
	if _, err := svc.Complete(ctx, testUser, "contract-2024-02-c1"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestCommand_SingleFlightPerEntry(t *testing.T) {
	store := newFakeStore()
	entry := rentAnchor()
	store.Seed(entry)
	other := rentAnchor()
	other.ID = "t2"
	store.Seed(other)

	store.updateGate = make(chan struct{})
	store.updateEnter = make(chan struct{}, 2)
	svc := newTestService(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.Complete(ctx, testUser, "t1"); err != nil {
			t.Errorf("first Complete failed: %v", err)
		}
	}()
	<-store.updateEnter

	if _, err := svc.Complete(ctx, testUser, "t1"); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight for duplicate click, got %v", err)
	}

	// a different entry is not blocked by the guard
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.SetOverdue(ctx, testUser, "t2"); err != nil {
			t.Errorf("SetOverdue on another entry failed: %v", err)
		}
	}()
	<-store.updateEnter

	close(store.updateGate)
	wg.Wait()

	if store.writeCount() != 2 {
		t.Errorf("expected 2 writes, got %d", store.writeCount())
	}
}

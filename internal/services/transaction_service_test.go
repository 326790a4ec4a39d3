package services

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/ledger"
)

type fakeStore struct {
	appended  []core.Transaction
	deleted   []string
	appendErr error
	deleteErr error
}

func (f *fakeStore) Append(_ context.Context, tx core.Transaction) (string, error) {
	if f.appendErr != nil {
		return "", f.appendErr
	}
	f.appended = append(f.appended, tx)
	return "id-1", nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBus struct {
	events []*amqp.LedgerEventMessage
	err    error
}

func (f *fakeBus) PublishLedgerEvent(_ context.Context, msg *amqp.LedgerEventMessage) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

func sample() core.Transaction {
	return core.Transaction{
		Title:  "Coffee",
		Amount: core.Money{Cents: 450},
		Type:   core.Expense,
		Date:   core.NewDate(2024, 1, 2),
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	store := &fakeStore{}
	bus := &fakeBus{}
	svc := NewTransactionService(store, bus)

	id, err := svc.Create(context.Background(), sample())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "id-1" {
		t.Fatalf("expected id-1, got %s", id)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.events))
	}
	ev := bus.events[0]
	if ev.Kind != amqp.EventCreated || ev.ID != "id-1" || ev.Date != "2024-01-02" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	store := &fakeStore{}
	bus := &fakeBus{err: errors.New("broker down")}
	svc := NewTransactionService(store, bus)

	if _, err := svc.Create(context.Background(), sample()); err != nil {
		t.Fatalf("create must not fail when publishing fails: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("transaction must still be stored")
	}
}

func TestCreateWithoutBus(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, nil)

	if _, err := svc.Create(context.Background(), sample()); err != nil {
		t.Fatalf("create without bus: %v", err)
	}
}

func TestCreateStoreError(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("disk full")}
	bus := &fakeBus{}
	svc := NewTransactionService(store, bus)

	if _, err := svc.Create(context.Background(), sample()); err == nil {
		t.Fatalf("expected store error to propagate")
	}
	if len(bus.events) != 0 {
		t.Fatalf("no event must be published when the write fails")
	}
}

func TestDeletePublishesEvent(t *testing.T) {
	store := &fakeStore{}
	bus := &fakeBus{}
	svc := NewTransactionService(store, bus)

	if err := svc.Delete(context.Background(), "id-9", core.NewDate(2024, 3, 1)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "id-9" {
		t.Fatalf("store delete not called: %+v", store.deleted)
	}
	if len(bus.events) != 1 || bus.events[0].Kind != amqp.EventDeleted {
		t.Fatalf("expected deleted event, got %+v", bus.events)
	}
}

func TestDeleteNotFound(t *testing.T) {
	store := &fakeStore{deleteErr: ledger.ErrNotFound}
	svc := NewTransactionService(store, nil)

	err := svc.Delete(context.Background(), "missing", core.NewDate(2024, 3, 1))
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package service_test

import (
	"testing"
	"time"

	"github.com/unclebandit/wachat-backend/internal/model"
	"github.com/unclebandit/wachat-backend/internal/service"
)

// MockStatusEventRepo collects appended status events
type MockStatusEventRepo struct {
	events []*model.StatusEvent
}

func (m *MockStatusEventRepo) Create(event *model.StatusEvent) error {
	event.ID = len(m.events) + 1
	m.events = append(m.events, event)
	return nil
}

func (m *MockStatusEventRepo) ListByMessage(messageID int) ([]*model.StatusEvent, error) {
	out := []*model.StatusEvent{}
	for _, e := range m.events {
		if e.MessageID == messageID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newReconciler(repo *MockOutboundRepo, eventRepo *MockStatusEventRepo) *service.StatusReconciler {
	return &service.StatusReconciler{
		OutboundRepo:    repo,
		StatusEventRepo: eventRepo,
	}
}

func seedSentMessage(repo *MockOutboundRepo) *model.OutboundMessage {
	msg := &model.OutboundMessage{OrgID: 1, ContactID: 1, Status: model.StatusSending}
	repo.Create(msg)
	repo.MarkSent(msg.ID, "wamid.SEED")
	return msg
}

func update(status string) service.StatusUpdate {
	return service.StatusUpdate{ProviderMessageID: "wamid.SEED", Status: status, Timestamp: time.Now()}
}

func TestForwardTransitionsApply(t *testing.T) {
	repo := NewMockOutboundRepo()
	eventRepo := &MockStatusEventRepo{}
	rec := newReconciler(repo, eventRepo)
	msg := seedSentMessage(repo)

	for _, status := range []string{model.StatusDelivered, model.StatusRead} {
		if err := rec.Apply(update(status)); err != nil {
			t.Fatal(err)
		}
		stored, _ := repo.GetByID(msg.ID)
		if stored.Status != status {
			t.Fatalf("expected %s, got %s", status, stored.Status)
		}
	}

	if len(eventRepo.events) != 2 {
		t.Errorf("expected 2 audit events, got %d", len(eventRepo.events))
	}
}

func TestOutOfOrderCallbacksConverge(t *testing.T) {
	// every arrival order of {sent, delivered, read}, with duplicates mixed
	// in, must land on read and never regress
	orders := [][]string{
		{model.StatusRead, model.StatusDelivered, model.StatusSent},
		{model.StatusDelivered, model.StatusRead, model.StatusSent},
		{model.StatusSent, model.StatusRead, model.StatusDelivered, model.StatusRead},
		{model.StatusRead, model.StatusRead, model.StatusRead},
	}

	for _, order := range orders {
		repo := NewMockOutboundRepo()
		rec := newReconciler(repo, &MockStatusEventRepo{})
		msg := seedSentMessage(repo)

		for _, status := range order {
			if err := rec.Apply(update(status)); err != nil {
				t.Fatal(err)
			}
		}

		stored, _ := repo.GetByID(msg.ID)
		if stored.Status != model.StatusRead {
			t.Errorf("order %v: expected final read, got %s", order, stored.Status)
		}
	}
}

func TestDuplicateCallbackIsIgnored(t *testing.T) {
	repo := NewMockOutboundRepo()
	eventRepo := &MockStatusEventRepo{}
	rec := newReconciler(repo, eventRepo)
	seedSentMessage(repo)

	rec.Apply(update(model.StatusDelivered))
	rec.Apply(update(model.StatusDelivered)) // duplicate
	rec.Apply(update(model.StatusSent))      // stale

	if len(eventRepo.events) != 1 {
		t.Errorf("only the first delivered callback should append history, got %d events", len(eventRepo.events))
	}
}

func TestFailedOnlyReachableFromSending(t *testing.T) {
	repo := NewMockOutboundRepo()
	rec := newReconciler(repo, &MockStatusEventRepo{})
	msg := seedSentMessage(repo)

	// already sent: a failed callback must not regress it
	if err := rec.Apply(update(model.StatusFailed)); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.GetByID(msg.ID)
	if stored.Status != model.StatusSent {
		t.Fatalf("failed must not apply over sent, got %s", stored.Status)
	}

	// still sending: failed applies
	sending := &model.OutboundMessage{OrgID: 1, ContactID: 1, Status: model.StatusSending}
	repo.Create(sending)
	repo.byProvider["wamid.SENDING"] = sending.ID
	err := rec.Apply(service.StatusUpdate{ProviderMessageID: "wamid.SENDING", Status: model.StatusFailed, Timestamp: time.Now()})
	if err != nil {
		t.Fatal(err)
	}
	stored, _ = repo.GetByID(sending.ID)
	if stored.Status != model.StatusFailed {
		t.Fatalf("expected failed from sending, got %s", stored.Status)
	}
}

func TestTerminalFailedNeverMovesForward(t *testing.T) {
	repo := NewMockOutboundRepo()
	rec := newReconciler(repo, &MockStatusEventRepo{})

	msg := &model.OutboundMessage{OrgID: 1, ContactID: 1, Status: model.StatusFailed}
	repo.Create(msg)
	repo.byProvider["wamid.DEAD"] = msg.ID

	rec.Apply(service.StatusUpdate{ProviderMessageID: "wamid.DEAD", Status: model.StatusDelivered, Timestamp: time.Now()})

	stored, _ := repo.GetByID(msg.ID)
	if stored.Status != model.StatusFailed {
		t.Errorf("failed is terminal, got %s", stored.Status)
	}
}

func TestUnknownProviderMessageIgnored(t *testing.T) {
	repo := NewMockOutboundRepo()
	eventRepo := &MockStatusEventRepo{}
	rec := newReconciler(repo, eventRepo)

	err := rec.Apply(service.StatusUpdate{ProviderMessageID: "wamid.NOBODY", Status: model.StatusDelivered, Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("unknown provider message id must be a no-op, got %v", err)
	}
	if len(eventRepo.events) != 0 {
		t.Error("no history may be written for unknown messages")
	}
}

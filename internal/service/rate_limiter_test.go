package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/unclebandit/wachat-backend/internal/model"
	"github.com/unclebandit/wachat-backend/internal/service"
)

// MockLogRepo keeps automation log entries in a slice; CountRecentByContact
// mirrors the SQL filter
type MockLogRepo struct {
	entries  []*model.AutomationLogEntry
	countErr error
}

func (m *MockLogRepo) Create(entry *model.AutomationLogEntry) error {
	entry.ID = len(m.entries) + 1
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLogRepo) CountRecentByContact(contactID int, since time.Time) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	count := 0
	for _, e := range m.entries {
		if e.ContactID == contactID && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockLogRepo) ListByContact(contactID, limit int) ([]*model.AutomationLogEntry, error) {
	out := []*model.AutomationLogEntry{}
	for _, e := range m.entries {
		if e.ContactID == contactID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestThrottledByRecentEntry(t *testing.T) {
	now := time.Now()
	repo := &MockLogRepo{}
	repo.Create(&model.AutomationLogEntry{ContactID: 42, RuleID: 1, Result: model.AutomationFailed, CreatedAt: now.Add(-10 * time.Minute)})

	limiter := &service.RateLimiter{LogRepo: repo}

	throttled, err := limiter.IsThrottled(42, now)
	if err != nil {
		t.Fatal(err)
	}
	if !throttled {
		t.Error("expected throttle: entry 10 minutes ago, even a failed one, suppresses automation")
	}
}

func TestNotThrottledAfterWindow(t *testing.T) {
	now := time.Now()
	repo := &MockLogRepo{}
	repo.Create(&model.AutomationLogEntry{ContactID: 42, RuleID: 1, Result: model.AutomationSuccess, CreatedAt: now.Add(-61 * time.Minute)})

	limiter := &service.RateLimiter{LogRepo: repo}

	throttled, err := limiter.IsThrottled(42, now)
	if err != nil {
		t.Fatal(err)
	}
	if throttled {
		t.Error("expected no throttle: last entry is older than 60 minutes")
	}
}

func TestThrottleIsPerContact(t *testing.T) {
	now := time.Now()
	repo := &MockLogRepo{}
	repo.Create(&model.AutomationLogEntry{ContactID: 42, RuleID: 1, Result: model.AutomationSuccess, CreatedAt: now.Add(-5 * time.Minute)})

	limiter := &service.RateLimiter{LogRepo: repo}

	throttled, _ := limiter.IsThrottled(99, now)
	if throttled {
		t.Error("a different contact must not be throttled")
	}
}

func TestThrottleCheckErrorSurfaces(t *testing.T) {
	limiter := &service.RateLimiter{LogRepo: &MockLogRepo{countErr: fmt.Errorf("db down")}}

	throttled, err := limiter.IsThrottled(42, time.Now())
	if err == nil {
		t.Fatal("expected error to surface to the caller")
	}
	if throttled {
		t.Error("expected throttled=false alongside the error")
	}
}

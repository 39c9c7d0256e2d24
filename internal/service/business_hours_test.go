package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/unclebandit/wachat-backend/internal/model"
	"github.com/unclebandit/wachat-backend/internal/service"
)

// MockHoursRepo returns canned rules or a canned error
type MockHoursRepo struct {
	rules []*model.BusinessHoursRule
	err   error
}

func (m *MockHoursRepo) ListByOrg(orgID int) ([]*model.BusinessHoursRule, error) {
	return m.rules, m.err
}

// 2025-03-03 is a Monday
var monday10UTC = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func TestNoRulesAlwaysOpen(t *testing.T) {
	svc := &service.BusinessHoursService{HoursRepo: &MockHoursRepo{}}

	for _, hour := range []int{0, 6, 12, 23} {
		now := time.Date(2025, 3, 3, hour, 0, 0, 0, time.UTC)
		decision := svc.IsOpen(1, now)
		if !decision.Open || decision.State != service.HoursOpen {
			t.Errorf("expected open at hour %d with no rules, got %+v", hour, decision)
		}
	}
}

func TestOpenWithinConfiguredHours(t *testing.T) {
	svc := &service.BusinessHoursService{HoursRepo: &MockHoursRepo{
		rules: []*model.BusinessHoursRule{
			{OrgID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC"},
		},
	}}

	decision := svc.IsOpen(1, monday10UTC)
	if !decision.Open || decision.State != service.HoursOpen {
		t.Fatalf("expected open at 10:00 Monday, got %+v", decision)
	}
}

func TestClosedOutsideConfiguredHours(t *testing.T) {
	svc := &service.BusinessHoursService{HoursRepo: &MockHoursRepo{
		rules: []*model.BusinessHoursRule{
			{OrgID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC"},
		},
	}}

	evening := time.Date(2025, 3, 3, 18, 30, 0, 0, time.UTC)
	decision := svc.IsOpen(1, evening)
	if decision.Open || decision.State != service.HoursClosed {
		t.Fatalf("expected closed at 18:30 Monday, got %+v", decision)
	}

	// Tuesday has no rule at all
	tuesday := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	decision = svc.IsOpen(1, tuesday)
	if decision.Open {
		t.Fatalf("expected closed on a day without rules, got %+v", decision)
	}
}

func TestEndTimeIsExclusive(t *testing.T) {
	svc := &service.BusinessHoursService{HoursRepo: &MockHoursRepo{
		rules: []*model.BusinessHoursRule{
			{OrgID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC"},
		},
	}}

	atStart := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	if d := svc.IsOpen(1, atStart); !d.Open {
		t.Errorf("expected open exactly at start time, got %+v", d)
	}

	atEnd := time.Date(2025, 3, 3, 17, 0, 0, 0, time.UTC)
	if d := svc.IsOpen(1, atEnd); d.Open {
		t.Errorf("expected closed exactly at end time, got %+v", d)
	}
}

func TestTimezoneConversion(t *testing.T) {
	// Nairobi is UTC+3 year-round: 07:00 UTC is 10:00 local
	svc := &service.BusinessHoursService{HoursRepo: &MockHoursRepo{
		rules: []*model.BusinessHoursRule{
			{OrgID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "Africa/Nairobi"},
		},
	}}

	utcMorning := time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)
	decision := svc.IsOpen(1, utcMorning)
	if !decision.Open {
		t.Fatalf("expected open at 10:00 Nairobi time, got %+v", decision)
	}

	// 15:00 UTC is 18:00 local, past closing
	utcAfternoon := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)
	decision = svc.IsOpen(1, utcAfternoon)
	if decision.Open {
		t.Fatalf("expected closed at 18:00 Nairobi time, got %+v", decision)
	}
}

func TestLookupFailureFailsOpen(t *testing.T) {
	svc := &service.BusinessHoursService{HoursRepo: &MockHoursRepo{
		err: fmt.Errorf("connection refused"),
	}}

	decision := svc.IsOpen(1, monday10UTC)
	if !decision.Open {
		t.Fatal("expected fail-open on storage error")
	}
	if decision.State != service.HoursUnknown {
		t.Errorf("expected unknown state so callers can tell degraded from truly open, got %s", decision.State)
	}
	if decision.Reason == "" {
		t.Error("expected a reason string for logging")
	}
}

func TestBadTimezoneFailsOpen(t *testing.T) {
	svc := &service.BusinessHoursService{HoursRepo: &MockHoursRepo{
		rules: []*model.BusinessHoursRule{
			{OrgID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "Mars/Olympus"},
		},
	}}

	decision := svc.IsOpen(1, monday10UTC)
	if !decision.Open || decision.State != service.HoursUnknown {
		t.Fatalf("expected fail-open on bad timezone, got %+v", decision)
	}
}

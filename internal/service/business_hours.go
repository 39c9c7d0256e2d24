// internal/service/business_hours.go
package service

import (
    "fmt"
    "time"

    "github.com/unclebandit/wachat-backend/internal/repository"
)

type HoursState string

const (
    HoursOpen    HoursState = "open"
    HoursClosed  HoursState = "closed"
    HoursUnknown HoursState = "unknown" // lookup failed, treated as open
)

// HoursDecision distinguishes "truly open" from "degraded to open" so callers
// and tests can tell the two apart. Open is the field the pipeline acts on.
type HoursDecision struct {
    Open     bool
    State    HoursState
    Timezone string
    Reason   string
}

type BusinessHoursService struct {
    HoursRepo repository.BusinessHoursRepositoryInterface
}

// IsOpen decides whether the org accepts automation at the given instant.
// No configured rows means always open, and any lookup failure fails open:
// a broken hours table must not stop message flow.
func (s *BusinessHoursService) IsOpen(orgID int, now time.Time) HoursDecision {
    rules, err := s.HoursRepo.ListByOrg(orgID)
    if err != nil {
        return HoursDecision{
            Open:   true,
            State:  HoursUnknown,
            Reason: fmt.Sprintf("business hours lookup failed, failing open: %v", err),
        }
    }

    if len(rules) == 0 {
        return HoursDecision{
            Open:   true,
            State:  HoursOpen,
            Reason: "no business hours configured",
        }
    }

    tz := rules[0].Timezone
    loc, err := time.LoadLocation(tz)
    if err != nil {
        return HoursDecision{
            Open:     true,
            State:    HoursUnknown,
            Timezone: tz,
            Reason:   fmt.Sprintf("invalid timezone %q, failing open: %v", tz, err),
        }
    }

    local := now.In(loc)
    day := int(local.Weekday())
    clock := local.Format("15:04")

    for _, rule := range rules {
        if rule.DayOfWeek != day {
            continue
        }
        // "HH:MM" strings compare correctly as strings
        if rule.StartTime <= clock && clock < rule.EndTime {
            return HoursDecision{
                Open:     true,
                State:    HoursOpen,
                Timezone: tz,
                Reason:   fmt.Sprintf("within %s-%s on weekday %d", rule.StartTime, rule.EndTime, day),
            }
        }
    }

    return HoursDecision{
        State:    HoursClosed,
        Timezone: tz,
        Reason:   fmt.Sprintf("outside configured hours (%s local time, weekday %d)", clock, day),
    }
}

// internal/service/rate_limiter.go
package service

import (
    "time"

    "github.com/unclebandit/wachat-backend/internal/repository"
)

// One automated action per contact per hour, counted across all rules and
// regardless of whether the attempt succeeded.
const throttleWindow = time.Hour

type RateLimiter struct {
    LogRepo repository.AutomationLogRepositoryInterface
}

// IsThrottled is a point-in-time read with no locking. Two near-simultaneous
// inbound messages can both pass before either writes a log entry; that rare
// double reply is accepted rather than paying for a transaction here.
func (l *RateLimiter) IsThrottled(contactID int, now time.Time) (bool, error) {
    count, err := l.LogRepo.CountRecentByContact(contactID, now.Add(-throttleWindow))
    if err != nil {
        return false, err
    }
    return count > 0, nil
}

// internal/events/notifier.go
package events

import (
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/unclebandit/wachat-backend/internal/queue"
)

// Topic carrying realtime events for the external broadcast layer.
const RealtimeTopic = "realtime_events"

// Event types emitted by the automation and delivery pipeline.
const (
    TypeAutomationTriggered    = "automation.triggered"
    TypeAutomationSkippedHours = "automation.skipped_hours"
    TypeMessageStatusChanged   = "message.status_changed"
)

// Event is the outward payload. Transport and subscriber lists belong to the
// broadcast collaborator, not to this service.
type Event struct {
    ID        string         `json:"id"`
    Type      string         `json:"type"`
    OrgID     int            `json:"org_id"`
    Payload   map[string]any `json:"payload"`
    CreatedAt time.Time      `json:"created_at"`
}

type Notifier struct {
    Queue queue.Queue
}

// Emit publishes one event. A nil queue or a publish failure is logged and
// swallowed: notifications must never break the pipeline that produced them.
func (n *Notifier) Emit(eventType string, orgID int, payload map[string]any) {
    if n == nil || n.Queue == nil {
        return
    }

    evt := Event{
        ID:        uuid.NewString(),
        Type:      eventType,
        OrgID:     orgID,
        Payload:   payload,
        CreatedAt: time.Now(),
    }

    if err := n.Queue.Publish(RealtimeTopic, evt); err != nil {
        log.Printf("⚠️ failed to publish %s event: %v\n", eventType, err)
    }
}

// StartLogSubscriber attaches a logging subscriber, standing in for the
// websocket broadcaster that consumes this topic in production.
func StartLogSubscriber(q queue.Queue) {
    err := q.Subscribe(RealtimeTopic, func(payload any) error {
        evt, ok := payload.(Event)
        if !ok {
            return nil
        }
        log.Printf("📡 event %s org=%d payload=%v\n", evt.Type, evt.OrgID, evt.Payload)
        return nil
    })
    if err != nil {
        log.Println("⚠️ failed to subscribe realtime log consumer:", err)
    }
}

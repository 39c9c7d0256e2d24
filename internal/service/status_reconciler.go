// internal/service/status_reconciler.go
package service

import (
    "log"
    "time"

    "github.com/unclebandit/wachat-backend/internal/events"
    "github.com/unclebandit/wachat-backend/internal/model"
    "github.com/unclebandit/wachat-backend/internal/repository"
)

// StatusUpdate is one delivery-status callback from the provider, for any
// outbound message — automated or manually sent.
type StatusUpdate struct {
    ProviderMessageID string
    Status            string
    Timestamp         time.Time
}

type StatusReconciler struct {
    OutboundRepo    repository.OutboundMessageRepositoryInterface
    StatusEventRepo repository.StatusEventRepositoryInterface
    Events          *events.Notifier
}

// Apply moves the stored status forward if and only if the callback claims a
// strictly later status. Duplicate and out-of-order callbacks are common with
// webhook delivery and drop out silently, which makes Apply idempotent
// without any locking.
func (r *StatusReconciler) Apply(update StatusUpdate) error {
    msg, err := r.OutboundRepo.GetByProviderMessageID(update.ProviderMessageID)
    if err != nil {
        return err
    }
    if msg == nil {
        // callbacks can outrun (or outlive) our own records
        log.Println("status callback for unknown provider message id:", update.ProviderMessageID)
        return nil
    }

    if !model.IsForwardTransition(msg.Status, update.Status) {
        return nil
    }

    if err := r.OutboundRepo.UpdateStatus(msg.ID, update.Status); err != nil {
        return err
    }

    event := &model.StatusEvent{
        MessageID:         msg.ID,
        Status:            update.Status,
        ProviderTimestamp: update.Timestamp,
    }
    if err := r.StatusEventRepo.Create(event); err != nil {
        log.Println("⚠️ failed to append status event:", err)
    }

    r.Events.Emit(events.TypeMessageStatusChanged, msg.OrgID, map[string]any{
        "message_id": msg.ID,
        "status":     update.Status,
    })
    return nil
}

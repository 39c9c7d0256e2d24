package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/wachat-backend/internal/model"
)

type StatusEventRepositoryInterface interface {
    Create(event *model.StatusEvent) error
    ListByMessage(messageID int) ([]*model.StatusEvent, error)
}

// StatusEventRepository keeps the append-only delivery-status history.
type StatusEventRepository struct {
    DB *sql.DB
}

func (r *StatusEventRepository) Create(event *model.StatusEvent) error {
    event.CreatedAt = time.Now()
    query := `
        INSERT INTO message_status_events (message_id, status, provider_timestamp, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
    return r.DB.QueryRow(query, event.MessageID, event.Status, event.ProviderTimestamp, event.CreatedAt).Scan(&event.ID)
}

func (r *StatusEventRepository) ListByMessage(messageID int) ([]*model.StatusEvent, error) {
    query := `
        SELECT id, message_id, status, provider_timestamp, created_at
        FROM message_status_events
        WHERE message_id=$1
        ORDER BY id ASC
    `
    rows, err := r.DB.Query(query, messageID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    events := []*model.StatusEvent{}
    for rows.Next() {
        e := &model.StatusEvent{}
        if err := rows.Scan(&e.ID, &e.MessageID, &e.Status, &e.ProviderTimestamp, &e.CreatedAt); err != nil {
            return nil, err
        }
        events = append(events, e)
    }
    return events, rows.Err()
}

var _ StatusEventRepositoryInterface = (*StatusEventRepository)(nil)

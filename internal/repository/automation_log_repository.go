package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/wachat-backend/internal/model"
)

type AutomationLogRepositoryInterface interface {
    Create(entry *model.AutomationLogEntry) error
    CountRecentByContact(contactID int, since time.Time) (int, error)
    ListByContact(contactID, limit int) ([]*model.AutomationLogEntry, error)
}

type AutomationLogRepository struct {
    DB *sql.DB
}

// Create appends one log entry. Entries are never updated or deleted.
func (r *AutomationLogRepository) Create(entry *model.AutomationLogEntry) error {
    entry.CreatedAt = time.Now()
    query := `
        INSERT INTO automation_logs (rule_id, contact_id, inbound_message_id, action_taken, result, error_message, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
    return r.DB.QueryRow(
        query,
        entry.RuleID, entry.ContactID, entry.InboundMessageID,
        entry.ActionTaken, entry.Result, entry.ErrorMessage, entry.CreatedAt,
    ).Scan(&entry.ID)
}

// CountRecentByContact backs the per-contact throttle: any entry since the
// cutoff counts, no matter which rule fired or whether it succeeded.
func (r *AutomationLogRepository) CountRecentByContact(contactID int, since time.Time) (int, error) {
    var count int
    query := `SELECT COUNT(*) FROM automation_logs WHERE contact_id=$1 AND created_at >= $2`
    if err := r.DB.QueryRow(query, contactID, since).Scan(&count); err != nil {
        return 0, err
    }
    return count, nil
}

func (r *AutomationLogRepository) ListByContact(contactID, limit int) ([]*model.AutomationLogEntry, error) {
    query := `
        SELECT id, rule_id, contact_id, inbound_message_id, action_taken, result, error_message, created_at
        FROM automation_logs
        WHERE contact_id=$1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `
    rows, err := r.DB.Query(query, contactID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    entries := []*model.AutomationLogEntry{}
    for rows.Next() {
        e := &model.AutomationLogEntry{}
        if err := rows.Scan(&e.ID, &e.RuleID, &e.ContactID, &e.InboundMessageID, &e.ActionTaken, &e.Result, &e.ErrorMessage, &e.CreatedAt); err != nil {
            return nil, err
        }
        entries = append(entries, e)
    }
    return entries, rows.Err()
}

var _ AutomationLogRepositoryInterface = (*AutomationLogRepository)(nil)

package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/wachat-backend/internal/model"
)

// ContactRepositoryInterface covers the contact and conversation reads the
// pipeline needs, plus the upserts webhook ingestion performs.
type ContactRepositoryInterface interface {
    GetByID(id int) (*model.Contact, error)
    UpsertByPhone(orgID int, phone, name string, inboundAt time.Time) (*model.Contact, error)
    EnsureConversation(orgID, contactID int) (int, error)
}

type ContactRepository struct {
    DB *sql.DB
}

func (r *ContactRepository) GetByID(id int) (*model.Contact, error) {
    query := `
        SELECT id, org_id, phone, name, last_inbound_at
        FROM contacts
        WHERE id=$1
    `
    var c model.Contact
    err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.OrgID, &c.Phone, &c.Name, &c.LastInboundAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &c, nil
}

// UpsertByPhone creates the contact on first sight and advances
// last_inbound_at on every inbound message. The engagement-window check in
// delivery validation reads that timestamp.
func (r *ContactRepository) UpsertByPhone(orgID int, phone, name string, inboundAt time.Time) (*model.Contact, error) {
    query := `
        INSERT INTO contacts (org_id, phone, name, last_inbound_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (org_id, phone) DO UPDATE
        SET last_inbound_at = GREATEST(contacts.last_inbound_at, EXCLUDED.last_inbound_at),
            name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE contacts.name END
        RETURNING id, org_id, phone, name, last_inbound_at
    `
    var c model.Contact
    err := r.DB.QueryRow(query, orgID, phone, name, inboundAt).Scan(&c.ID, &c.OrgID, &c.Phone, &c.Name, &c.LastInboundAt)
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// EnsureConversation returns the conversation id for the contact, creating it
// on first inbound message.
func (r *ContactRepository) EnsureConversation(orgID, contactID int) (int, error) {
    var id int
    err := r.DB.QueryRow(`SELECT id FROM conversations WHERE org_id=$1 AND contact_id=$2`, orgID, contactID).Scan(&id)
    if err == nil {
        return id, nil
    }
    if err != sql.ErrNoRows {
        return 0, err
    }

    query := `
        INSERT INTO conversations (org_id, contact_id, created_at)
        VALUES ($1, $2, NOW())
        RETURNING id
    `
    if err := r.DB.QueryRow(query, orgID, contactID).Scan(&id); err != nil {
        return 0, err
    }
    return id, nil
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)

package repository

import (
    "database/sql"
    "time"

    "github.com/lib/pq"

    "github.com/unclebandit/wachat-backend/internal/model"
)

type OutboundMessageRepositoryInterface interface {
    Create(msg *model.OutboundMessage) error
    GetByID(id int) (*model.OutboundMessage, error)
    GetByProviderMessageID(providerMessageID string) (*model.OutboundMessage, error)
    MarkSent(id int, providerMessageID string) error
    RecordAttemptError(id int, errText string) error
    MarkFailed(id int, errText string) error
    UpdateStatus(id int, status string) error
}

type OutboundMessageRepository struct {
    DB *sql.DB
}

// Create inserts a new outbound message row; callers pass it in the sending state.
func (r *OutboundMessageRepository) Create(msg *model.OutboundMessage) error {
    now := time.Now()
    msg.CreatedAt = now
    msg.UpdatedAt = now
    msg.Direction = "outbound"

    query := `
        INSERT INTO outbound_messages
        (org_id, conversation_id, contact_id, direction, body, template_name, template_language,
         template_params, phone_number_id, status, retry_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `
    return r.DB.QueryRow(
        query,
        msg.OrgID, msg.ConversationID, msg.ContactID, msg.Direction,
        msg.Body, msg.TemplateName, msg.TemplateLanguage,
        pq.Array(msg.TemplateParams), msg.PhoneNumberID, msg.Status,
        msg.RetryCount, msg.CreatedAt, msg.UpdatedAt,
    ).Scan(&msg.ID)
}

func (r *OutboundMessageRepository) GetByID(id int) (*model.OutboundMessage, error) {
    query := `
        SELECT id, org_id, conversation_id, contact_id, direction, body, template_name,
               template_language, template_params, phone_number_id, status,
               provider_message_id, retry_count, last_error, last_error_at, created_at, updated_at
        FROM outbound_messages
        WHERE id=$1
    `
    return r.scanOne(r.DB.QueryRow(query, id))
}

func (r *OutboundMessageRepository) GetByProviderMessageID(providerMessageID string) (*model.OutboundMessage, error) {
    query := `
        SELECT id, org_id, conversation_id, contact_id, direction, body, template_name,
               template_language, template_params, phone_number_id, status,
               provider_message_id, retry_count, last_error, last_error_at, created_at, updated_at
        FROM outbound_messages
        WHERE provider_message_id=$1
    `
    return r.scanOne(r.DB.QueryRow(query, providerMessageID))
}

func (r *OutboundMessageRepository) scanOne(row *sql.Row) (*model.OutboundMessage, error) {
    var msg model.OutboundMessage
    err := row.Scan(
        &msg.ID, &msg.OrgID, &msg.ConversationID, &msg.ContactID, &msg.Direction,
        &msg.Body, &msg.TemplateName, &msg.TemplateLanguage, pq.Array(&msg.TemplateParams),
        &msg.PhoneNumberID, &msg.Status, &msg.ProviderMessageID, &msg.RetryCount,
        &msg.LastError, &msg.LastErrorAt, &msg.CreatedAt, &msg.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &msg, nil
}

// MarkSent records the provider-assigned id; it is set once and kept.
func (r *OutboundMessageRepository) MarkSent(id int, providerMessageID string) error {
    query := `
        UPDATE outbound_messages
        SET status='sent', provider_message_id=$1, updated_at=NOW()
        WHERE id=$2
    `
    _, err := r.DB.Exec(query, providerMessageID, id)
    return err
}

// RecordAttemptError bumps the retry counter and keeps the latest error so
// operators can see transient turbulence even on messages that end up sent.
func (r *OutboundMessageRepository) RecordAttemptError(id int, errText string) error {
    query := `
        UPDATE outbound_messages
        SET retry_count=retry_count+1, last_error=$1, last_error_at=NOW(), updated_at=NOW()
        WHERE id=$2
    `
    _, err := r.DB.Exec(query, errText, id)
    return err
}

func (r *OutboundMessageRepository) MarkFailed(id int, errText string) error {
    query := `
        UPDATE outbound_messages
        SET status='failed', last_error=$1, last_error_at=NOW(), updated_at=NOW()
        WHERE id=$2
    `
    _, err := r.DB.Exec(query, errText, id)
    return err
}

func (r *OutboundMessageRepository) UpdateStatus(id int, status string) error {
    query := `UPDATE outbound_messages SET status=$1, updated_at=NOW() WHERE id=$2`
    _, err := r.DB.Exec(query, status, id)
    return err
}

var _ OutboundMessageRepositoryInterface = (*OutboundMessageRepository)(nil)

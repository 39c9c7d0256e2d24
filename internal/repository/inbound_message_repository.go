package repository

import (
    "database/sql"

    "github.com/unclebandit/wachat-backend/internal/model"
)

type InboundMessageRepositoryInterface interface {
    Create(msg *model.InboundMessage) error
}

type InboundMessageRepository struct {
    DB *sql.DB
}

func (r *InboundMessageRepository) Create(msg *model.InboundMessage) error {
    query := `
        INSERT INTO inbound_messages (org_id, conversation_id, contact_id, body, provider_message_id, received_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
    return r.DB.QueryRow(
        query,
        msg.OrgID, msg.ConversationID, msg.ContactID, msg.Body, msg.ProviderMessageID, msg.ReceivedAt,
    ).Scan(&msg.ID)
}

var _ InboundMessageRepositoryInterface = (*InboundMessageRepository)(nil)

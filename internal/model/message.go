// internal/model/message.go
package model

import "time"

// Delivery statuses. Reconciliation only ever moves forward through the
// ordinals; failed is terminal and reachable from sending only.
const (
    StatusSending   = "sending"
    StatusSent      = "sent"
    StatusDelivered = "delivered"
    StatusRead      = "read"
    StatusFailed    = "failed"
)

var statusRank = map[string]int{
    StatusSending:   0,
    StatusSent:      1,
    StatusDelivered: 2,
    StatusRead:      3,
}

// IsForwardTransition reports whether moving current -> next is allowed.
// Equal or earlier statuses are not forward, so duplicate and out-of-order
// callbacks fall out as no-ops.
func IsForwardTransition(current, next string) bool {
    if next == StatusFailed {
        return current == StatusSending
    }
    cur, ok := statusRank[current]
    if !ok {
        return false // failed (or unknown) is terminal
    }
    nxt, ok := statusRank[next]
    if !ok {
        return false
    }
    return nxt > cur
}

type OutboundMessage struct {
    ID                int        `db:"id" json:"id"`
    OrgID             int        `db:"org_id" json:"org_id"`
    ConversationID    int        `db:"conversation_id" json:"conversation_id"`
    ContactID         int        `db:"contact_id" json:"contact_id"`
    Direction         string     `db:"direction" json:"direction"` // always outbound
    Body              string     `db:"body" json:"body,omitempty"`
    TemplateName      string     `db:"template_name" json:"template_name,omitempty"`
    TemplateLanguage  string     `db:"template_language" json:"template_language,omitempty"`
    TemplateParams    []string   `db:"template_params" json:"template_params,omitempty"`
    PhoneNumberID     string     `db:"phone_number_id" json:"phone_number_id"`
    Status            string     `db:"status" json:"status"`
    ProviderMessageID string     `db:"provider_message_id" json:"provider_message_id,omitempty"`
    RetryCount        int        `db:"retry_count" json:"retry_count"`
    LastError         string     `db:"last_error" json:"last_error,omitempty"`
    LastErrorAt       *time.Time `db:"last_error_at" json:"last_error_at,omitempty"`
    CreatedAt         time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

type InboundMessage struct {
    ID                int       `db:"id" json:"id"`
    OrgID             int       `db:"org_id" json:"org_id"`
    ConversationID    int       `db:"conversation_id" json:"conversation_id"`
    ContactID         int       `db:"contact_id" json:"contact_id"`
    Body              string    `db:"body" json:"body"`
    ProviderMessageID string    `db:"provider_message_id" json:"provider_message_id"`
    ReceivedAt        time.Time `db:"received_at" json:"received_at"`
}

// StatusEvent is one accepted delivery-status transition, kept as an
// append-only history next to the canonical status on the message row.
type StatusEvent struct {
    ID                int       `db:"id" json:"id"`
    MessageID         int       `db:"message_id" json:"message_id"`
    Status            string    `db:"status" json:"status"`
    ProviderTimestamp time.Time `db:"provider_timestamp" json:"provider_timestamp"`
    CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

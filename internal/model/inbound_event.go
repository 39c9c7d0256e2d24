// internal/model/inbound_event.go
package model

// InboundEvent is what webhook ingestion hands to the automation pipeline,
// one per stored inbound message. It also rides the inbound_events queue as
// JSON when a separate worker process runs the pipeline.
type InboundEvent struct {
    OrgID          int    `json:"org_id"`
    ContactID      int    `json:"contact_id"`
    ConversationID int    `json:"conversation_id"`
    MessageID      int    `json:"message_id"`
    MessageBody    string `json:"message_body"`
    PhoneNumberID  string `json:"phone_number_id"`
    ContactPhone   string `json:"contact_phone"`
}

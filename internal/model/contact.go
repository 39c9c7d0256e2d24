// internal/model/contact.go
package model

import "time"

type Contact struct {
    ID            int        `db:"id" json:"id"`
    OrgID         int        `db:"org_id" json:"org_id"`
    Phone         string     `db:"phone" json:"phone"`
    Name          string     `db:"name" json:"name"`
    LastInboundAt *time.Time `db:"last_inbound_at" json:"last_inbound_at,omitempty"`
}

type Conversation struct {
    ID        int       `db:"id" json:"id"`
    OrgID     int       `db:"org_id" json:"org_id"`
    ContactID int       `db:"contact_id" json:"contact_id"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}

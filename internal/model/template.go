// internal/model/template.go
package model

import "time"

// Template statuses that are allowed to be sent. PENDING_QUALITY is the
// provider's quality-review grace state and still counts as sendable.
const (
    TemplateApproved       = "APPROVED"
    TemplateActive         = "ACTIVE"
    TemplatePendingQuality = "PENDING_QUALITY"
)

type MessageTemplate struct {
    ID        int       `db:"id" json:"id"`
    OrgID     int       `db:"org_id" json:"org_id"`
    Name      string    `db:"name" json:"name"`
    Language  string    `db:"language" json:"language"`
    Status    string    `db:"status" json:"status"`
    Body      string    `db:"body" json:"body"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}

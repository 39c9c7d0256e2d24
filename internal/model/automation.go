// internal/model/automation.go
package model

import "time"

// Action kinds for automation rules
const (
    ActionSendTemplate = "send_template"
    ActionSendText     = "send_text"
)

type AutomationRule struct {
    ID               int       `db:"id" json:"id"`
    OrgID            int       `db:"org_id" json:"org_id"`
    Name             string    `db:"name" json:"name"`
    Keywords         []string  `db:"keywords" json:"keywords"`
    ActionKind       string    `db:"action_kind" json:"action_kind"` // send_template, send_text
    ActionText       string    `db:"action_text" json:"action_text,omitempty"`
    TemplateName     string    `db:"template_name" json:"template_name,omitempty"`
    TemplateLanguage string    `db:"template_language" json:"template_language,omitempty"`
    TemplateParams   []string  `db:"template_params" json:"template_params,omitempty"`
    Priority         int       `db:"priority" json:"priority"` // lower = evaluated first
    Active           bool      `db:"active" json:"active"`
    CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// BusinessHoursRule is one open interval on one weekday. All rows for an org
// share the same timezone. Start and End are local "HH:MM" clock times.
type BusinessHoursRule struct {
    ID        int    `db:"id" json:"id"`
    OrgID     int    `db:"org_id" json:"org_id"`
    DayOfWeek int    `db:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
    StartTime string `db:"start_time" json:"start_time"`
    EndTime   string `db:"end_time" json:"end_time"`
    Timezone  string `db:"timezone" json:"timezone"`
}

// AutomationLogEntry is append-only: it is the audit trail of every automation
// attempt and the data source for the per-contact throttle.
type AutomationLogEntry struct {
    ID               int       `db:"id" json:"id"`
    RuleID           int       `db:"rule_id" json:"rule_id"`
    ContactID        int       `db:"contact_id" json:"contact_id"`
    InboundMessageID int       `db:"inbound_message_id" json:"inbound_message_id"`
    ActionTaken      string    `db:"action_taken" json:"action_taken"`
    Result           string    `db:"result" json:"result"` // success, failed
    ErrorMessage     string    `db:"error_message" json:"error_message,omitempty"`
    CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

const (
    AutomationSuccess = "success"
    AutomationFailed  = "failed"
)

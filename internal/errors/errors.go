// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrTemplateNotFound is a sentinel error
type ErrTemplateNotFound struct {
    Name string
}

func (e *ErrTemplateNotFound) Error() string {
    return fmt.Sprintf("template %q not found for this organization", e.Name)
}

func NewTemplateNotFound(name string) error {
    return &ErrTemplateNotFound{Name: name}
}

// ErrTemplateNotApproved names the actual provider status of the template
type ErrTemplateNotApproved struct {
    Name   string
    Status string
}

func (e *ErrTemplateNotApproved) Error() string {
    return fmt.Sprintf("template %q cannot be sent: status is %s, not approved", e.Name, e.Status)
}

func NewTemplateNotApproved(name, status string) error {
    return &ErrTemplateNotApproved{Name: name, Status: status}
}

// ErrOutsideEngagementWindow rejects free-text sends when the contact's last
// inbound message is 24h+ old (or the contact never wrote in at all).
type ErrOutsideEngagementWindow struct {
    HoursSinceInbound float64
    NoInbound         bool
}

func (e *ErrOutsideEngagementWindow) Error() string {
    if e.NoInbound {
        return "free-text send rejected: contact has no inbound messages, only approved templates can open the conversation"
    }
    return fmt.Sprintf("free-text send rejected: last inbound message was %.1f hours ago, outside the 24h engagement window", e.HoursSinceInbound)
}

func NewOutsideEngagementWindow(hours float64, noInbound bool) error {
    return &ErrOutsideEngagementWindow{HoursSinceInbound: hours, NoInbound: noInbound}
}

// ErrContactNotFound is a sentinel error
type ErrContactNotFound struct {
    ContactID int
}

func (e *ErrContactNotFound) Error() string {
    return fmt.Sprintf("contact with ID %d not found", e.ContactID)
}

func NewContactNotFound(id int) error {
    return &ErrContactNotFound{ContactID: id}
}

// ErrMessageNotFound is a sentinel error
type ErrMessageNotFound struct {
    MessageID int
}

func (e *ErrMessageNotFound) Error() string {
    return fmt.Sprintf("message with ID %d not found", e.MessageID)
}

func NewMessageNotFound(id int) error {
    return &ErrMessageNotFound{MessageID: id}
}

// IsValidation reports whether err is a delivery-validation rejection.
// Validation rejections are reported to the caller and never retried.
func IsValidation(err error) bool {
    var notFound *ErrTemplateNotFound
    var notApproved *ErrTemplateNotApproved
    var window *ErrOutsideEngagementWindow
    return errors.As(err, &notFound) || errors.As(err, &notApproved) || errors.As(err, &window)
}

// internal/service/delivery_validator.go
package service

import (
    "time"

    appErrors "github.com/unclebandit/wachat-backend/internal/errors"
    "github.com/unclebandit/wachat-backend/internal/model"
    "github.com/unclebandit/wachat-backend/internal/repository"
)

// The provider allows free text only inside a rolling 24h window opened by
// the contact's last inbound message. Approved templates are exempt.
const engagementWindow = 24 * time.Hour

// SendRequest is one outbound send. TemplateName empty means free text.
type SendRequest struct {
    OrgID            int
    ContactID        int
    ConversationID   int
    To               string // contact phone
    PhoneNumberID    string
    Body             string
    TemplateName     string
    TemplateLanguage string
    TemplateParams   []string
}

func (r SendRequest) IsTemplate() bool {
    return r.TemplateName != ""
}

type DeliveryValidator struct {
    TemplateRepo repository.TemplateRepositoryInterface
    ContactRepo  repository.ContactRepositoryInterface
    Now          func() time.Time // nil -> time.Now
}

func (v *DeliveryValidator) now() time.Time {
    if v.Now != nil {
        return v.Now()
    }
    return time.Now()
}

// Validate enforces the message-type rules. Template sends need an approved
// template and bypass the engagement-window check entirely, matching the
// provider's own policy; free text needs a recent inbound message.
func (v *DeliveryValidator) Validate(req SendRequest) error {
    if req.IsTemplate() {
        return v.validateTemplate(req)
    }
    return v.validateWindow(req)
}

func (v *DeliveryValidator) validateTemplate(req SendRequest) error {
    tpl, err := v.TemplateRepo.GetByName(req.OrgID, req.TemplateName, req.TemplateLanguage)
    if err != nil {
        return err
    }
    if tpl == nil {
        return appErrors.NewTemplateNotFound(req.TemplateName)
    }

    switch tpl.Status {
    case model.TemplateApproved, model.TemplateActive, model.TemplatePendingQuality:
        return nil
    }
    return appErrors.NewTemplateNotApproved(tpl.Name, tpl.Status)
}

func (v *DeliveryValidator) validateWindow(req SendRequest) error {
    contact, err := v.ContactRepo.GetByID(req.ContactID)
    if err != nil {
        return err
    }
    if contact == nil {
        return appErrors.NewContactNotFound(req.ContactID)
    }

    if contact.LastInboundAt == nil {
        return appErrors.NewOutsideEngagementWindow(0, true)
    }

    elapsed := v.now().Sub(*contact.LastInboundAt)
    if elapsed >= engagementWindow {
        return appErrors.NewOutsideEngagementWindow(elapsed.Hours(), false)
    }
    return nil
}

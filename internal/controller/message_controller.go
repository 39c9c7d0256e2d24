// internal/controller/message_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/unclebandit/wachat-backend/internal/errors"
    "github.com/unclebandit/wachat-backend/internal/model"
    "github.com/unclebandit/wachat-backend/internal/repository"
    "github.com/unclebandit/wachat-backend/internal/service"
)

type MessageController struct {
    Executor     *service.DeliveryExecutor
    OutboundRepo repository.OutboundMessageRepositoryInterface
    ContactRepo  repository.ContactRepositoryInterface
    LogRepo      repository.AutomationLogRepositoryInterface
}

// ResubmitMessage lets an operator push a failed message back through the
// delivery pipeline. Resubmission re-enters at validation and produces a
// fresh outbound row; the failed one stays as history.
func (c *MessageController) ResubmitMessage(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid message id", http.StatusBadRequest)
        return
    }

    msg, err := c.OutboundRepo.GetByID(id)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    if msg == nil {
        http.Error(w, appErrors.NewMessageNotFound(id).Error(), http.StatusNotFound)
        return
    }
    if msg.Status != model.StatusFailed {
        http.Error(w, "only failed messages can be resubmitted", http.StatusConflict)
        return
    }

    contact, err := c.ContactRepo.GetByID(msg.ContactID)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    if contact == nil {
        http.Error(w, appErrors.NewContactNotFound(msg.ContactID).Error(), http.StatusNotFound)
        return
    }

    req := service.SendRequest{
        OrgID:            msg.OrgID,
        ContactID:        msg.ContactID,
        ConversationID:   msg.ConversationID,
        To:               contact.Phone,
        PhoneNumberID:    msg.PhoneNumberID,
        Body:             msg.Body,
        TemplateName:     msg.TemplateName,
        TemplateLanguage: msg.TemplateLanguage,
        TemplateParams:   msg.TemplateParams,
    }

    newMsg, sendErr := c.Executor.Send(req)
    if sendErr != nil && appErrors.IsValidation(sendErr) {
        http.Error(w, sendErr.Error(), http.StatusUnprocessableEntity)
        return
    }

    response := map[string]interface{}{
        "resubmitted_from": msg.ID,
        "message":          newMsg,
    }
    if sendErr != nil {
        response["error"] = sendErr.Error()
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(response)
}

// ListAutomationLogs returns the automation history for one contact.
func (c *MessageController) ListAutomationLogs(w http.ResponseWriter, r *http.Request) {
    contactID, err := strconv.Atoi(r.URL.Query().Get("contact_id"))
    if err != nil || contactID < 1 {
        http.Error(w, "contact_id is required", http.StatusBadRequest)
        return
    }

    limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
    if limit < 1 {
        limit = 50
    }
    if limit > 200 {
        limit = 200
    }

    entries, err := c.LogRepo.ListByContact(contactID, limit)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data": entries,
    })
}

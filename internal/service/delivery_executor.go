// internal/service/delivery_executor.go
package service

import (
    "errors"
    "log"
    "net"
    "strings"
    "time"

    "github.com/unclebandit/wachat-backend/internal/events"
    "github.com/unclebandit/wachat-backend/internal/model"
    "github.com/unclebandit/wachat-backend/internal/provider"
    "github.com/unclebandit/wachat-backend/internal/repository"
)

const (
    maxRetries  = 3
    baseBackoff = 750 * time.Millisecond
    maxBackoff  = 6 * time.Second
)

// ProviderClient is the narrow seam to the WhatsApp Cloud API.
type ProviderClient interface {
    Post(path string, payload any) (string, error)
}

type DeliveryExecutor struct {
    Validator    *DeliveryValidator
    OutboundRepo repository.OutboundMessageRepositoryInterface
    Provider     ProviderClient
    Events       *events.Notifier
    Sleep        func(time.Duration) // nil -> time.Sleep
}

func (e *DeliveryExecutor) sleep(d time.Duration) {
    if e.Sleep != nil {
        e.Sleep(d)
        return
    }
    time.Sleep(d)
}

// Send validates the request, stores a sending row, and drives the provider
// call with bounded retry. On permanent failure or retry exhaustion the row
// ends up failed with the last error recorded; the caller gets the row either
// way (nil row only when validation rejected or the insert itself failed).
//
// Only this executor's own retry loop sleeps; concurrent sends for other
// contacts are unaffected.
func (e *DeliveryExecutor) Send(req SendRequest) (*model.OutboundMessage, error) {
    if err := e.Validator.Validate(req); err != nil {
        return nil, err
    }

    msg := &model.OutboundMessage{
        OrgID:            req.OrgID,
        ConversationID:   req.ConversationID,
        ContactID:        req.ContactID,
        Body:             req.Body,
        TemplateName:     req.TemplateName,
        TemplateLanguage: req.TemplateLanguage,
        TemplateParams:   req.TemplateParams,
        PhoneNumberID:    req.PhoneNumberID,
        Status:           model.StatusSending,
    }
    if err := e.OutboundRepo.Create(msg); err != nil {
        return nil, err
    }

    path := "/" + req.PhoneNumberID + "/messages"
    payload := buildPayload(req)

    var lastErr error
    for attempt := 0; ; attempt++ {
        providerMessageID, err := e.Provider.Post(path, payload)
        if err == nil {
            msg.Status = model.StatusSent
            msg.ProviderMessageID = providerMessageID
            if uerr := e.OutboundRepo.MarkSent(msg.ID, providerMessageID); uerr != nil {
                log.Println("⚠️ failed to mark message sent:", uerr)
            }
            e.Events.Emit(events.TypeMessageStatusChanged, msg.OrgID, map[string]any{
                "message_id": msg.ID,
                "status":     model.StatusSent,
            })
            return msg, nil
        }

        lastErr = err
        if !isTransient(err) || attempt >= maxRetries {
            break
        }

        // transient: record the attempt, back off, go again
        msg.RetryCount++
        if rerr := e.OutboundRepo.RecordAttemptError(msg.ID, err.Error()); rerr != nil {
            log.Println("⚠️ failed to record attempt error:", rerr)
        }
        e.sleep(backoffFor(attempt))
    }

    msg.Status = model.StatusFailed
    msg.LastError = lastErr.Error()
    if ferr := e.OutboundRepo.MarkFailed(msg.ID, lastErr.Error()); ferr != nil {
        log.Println("⚠️ failed to mark message failed:", ferr)
    }
    e.Events.Emit(events.TypeMessageStatusChanged, msg.OrgID, map[string]any{
        "message_id": msg.ID,
        "status":     model.StatusFailed,
        "error":      lastErr.Error(),
    })
    return msg, lastErr
}

func buildPayload(req SendRequest) map[string]any {
    if req.IsTemplate() {
        return provider.TemplatePayload(req.To, req.TemplateName, req.TemplateLanguage, req.TemplateParams)
    }
    return provider.TextPayload(req.To, req.Body)
}

// backoffFor returns 750ms * 2^attempt, clamped to 6s.
func backoffFor(attempt int) time.Duration {
    d := baseBackoff << uint(attempt)
    if d > maxBackoff {
        return maxBackoff
    }
    return d
}

// isTransient classifies the provider error. Rate limiting (429), server-side
// errors (5xx) and transport timeouts/connection drops are worth retrying;
// every other 4xx is a permanent request problem. Anything unrecognized is
// treated as permanent so unknown failure modes never retry unbounded.
func isTransient(err error) bool {
    var apiErr *provider.APIError
    if errors.As(err, &apiErr) {
        if apiErr.StatusCode == 429 {
            return true
        }
        return apiErr.StatusCode >= 500
    }

    var netErr net.Error
    if errors.As(err, &netErr) && netErr.Timeout() {
        return true
    }

    text := err.Error()
    return strings.Contains(text, "connection refused") ||
        strings.Contains(text, "connection reset") ||
        strings.Contains(text, "timeout")
}

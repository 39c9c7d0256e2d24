// internal/service/orchestrator.go
package service

import (
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/unclebandit/wachat-backend/internal/events"
    "github.com/unclebandit/wachat-backend/internal/model"
    "github.com/unclebandit/wachat-backend/internal/repository"
)

// Orchestrator runs the automation chain for one inbound message:
// business hours -> throttle -> rule match -> delivery, then one log entry.
type Orchestrator struct {
    Hours    *BusinessHoursService
    Limiter  *RateLimiter
    Matcher  *RuleMatcher
    Executor *DeliveryExecutor
    LogRepo  repository.AutomationLogRepositoryInterface
    Events   *events.Notifier
}

// Dispatch runs the chain on its own goroutine so the webhook ingestion path
// can acknowledge the provider immediately. Panics and errors stop here;
// automation problems must never disturb inbound message storage.
func (o *Orchestrator) Dispatch(evt model.InboundEvent) {
    go func() {
        defer func() {
            if r := recover(); r != nil {
                log.Printf("⚠️ automation panic for inbound message %d: %v\n", evt.MessageID, r)
            }
        }()
        if err := o.HandleInbound(evt); err != nil {
            log.Printf("⚠️ automation failed for inbound message %d: %v\n", evt.MessageID, err)
        }
    }()
}

// HandleInbound runs the chain synchronously. Gate order is cheapest-first:
// hours before throttle before matching, and a closed gate consumes no
// rate-limit budget.
func (o *Orchestrator) HandleInbound(evt model.InboundEvent) error {
    if strings.TrimSpace(evt.MessageBody) == "" {
        return nil
    }

    now := time.Now()

    decision := o.Hours.IsOpen(evt.OrgID, now)
    if decision.State == HoursUnknown {
        log.Println("business hours degraded open:", decision.Reason)
    }
    if !decision.Open {
        o.Events.Emit(events.TypeAutomationSkippedHours, evt.OrgID, map[string]any{
            "message_id": evt.MessageID,
            "contact_id": evt.ContactID,
            "reason":     decision.Reason,
        })
        return nil
    }

    throttled, err := o.Limiter.IsThrottled(evt.ContactID, now)
    if err != nil {
        // same availability bias as the hours gate: log and keep going
        log.Println("throttle check failed, continuing:", err)
    }
    if throttled {
        return nil
    }

    rule, err := o.Matcher.Match(evt.OrgID, evt.MessageBody)
    if err != nil {
        return err
    }
    if rule == nil {
        return nil
    }

    req := buildRuleSendRequest(rule, evt)
    _, sendErr := o.Executor.Send(req)

    entry := &model.AutomationLogEntry{
        RuleID:           rule.ID,
        ContactID:        evt.ContactID,
        InboundMessageID: evt.MessageID,
        ActionTaken:      actionTaken(rule),
        Result:           model.AutomationSuccess,
    }
    if sendErr != nil {
        entry.Result = model.AutomationFailed
        entry.ErrorMessage = sendErr.Error()
    }
    if err := o.LogRepo.Create(entry); err != nil {
        log.Println("⚠️ failed to write automation log entry:", err)
    }

    o.Events.Emit(events.TypeAutomationTriggered, evt.OrgID, map[string]any{
        "rule_id":    rule.ID,
        "contact_id": evt.ContactID,
        "message_id": evt.MessageID,
        "result":     entry.Result,
    })

    // sendErr is already recorded on the log entry and the message row;
    // returning it would only make queue consumers re-run an exhausted send
    return nil
}

func buildRuleSendRequest(rule *model.AutomationRule, evt model.InboundEvent) SendRequest {
    req := SendRequest{
        OrgID:          evt.OrgID,
        ContactID:      evt.ContactID,
        ConversationID: evt.ConversationID,
        To:             evt.ContactPhone,
        PhoneNumberID:  evt.PhoneNumberID,
    }
    if rule.ActionKind == model.ActionSendTemplate {
        req.TemplateName = rule.TemplateName
        req.TemplateLanguage = rule.TemplateLanguage
        req.TemplateParams = rule.TemplateParams
    } else {
        req.Body = rule.ActionText
    }
    return req
}

func actionTaken(rule *model.AutomationRule) string {
    if rule.ActionKind == model.ActionSendTemplate {
        return fmt.Sprintf("%s:%s", rule.ActionKind, rule.TemplateName)
    }
    return rule.ActionKind
}

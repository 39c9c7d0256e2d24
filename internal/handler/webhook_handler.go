// internal/handler/webhook_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/unclebandit/wachat-backend/internal/model"
	"github.com/unclebandit/wachat-backend/internal/repository"
	"github.com/unclebandit/wachat-backend/internal/service"
)

// WebhookHandler is the thin ingestion edge for the WhatsApp Cloud API: it
// verifies the subscription handshake, stores inbound messages, hands them to
// automation fire-and-forget, and feeds status callbacks to the reconciler.
type WebhookHandler struct {
	Orgs         repository.OrganizationRepositoryInterface
	Contacts     repository.ContactRepositoryInterface
	Inbound      repository.InboundMessageRepositoryInterface
	Orchestrator *service.Orchestrator
	Reconciler   *service.StatusReconciler
	VerifyToken  string

	// DispatchFunc overrides in-process dispatch, e.g. to publish the event
	// onto the inbound_events queue for a separate worker. Nil means the
	// orchestrator runs in this process.
	DispatchFunc func(evt model.InboundEvent) error
}

// Cloud API webhook payload, trimmed to the fields this service reads.

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value webhookValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookValue struct {
	Metadata struct {
		PhoneNumberID string `json:"phone_number_id"`
	} `json:"metadata"`
	Contacts []webhookContact `json:"contacts"`
	Messages []webhookMessage `json:"messages"`
	Statuses []webhookStatus  `json:"statuses"`
}

type webhookContact struct {
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
	WaID string `json:"wa_id"`
}

type webhookMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
}

type webhookStatus struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Verify answers the Cloud API subscription handshake (GET /webhook).
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}
	http.Error(w, "verification failed", http.StatusForbidden)
}

// Receive handles POST /webhook. The provider expects a fast acknowledgment,
// so inbound messages are stored and dispatched without waiting for the
// automation chain, and per-item failures are logged, never returned.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			h.processValue(change.Value)
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("EVENT_RECEIVED"))
}

func (h *WebhookHandler) processValue(value webhookValue) {
	names := map[string]string{}
	for _, c := range value.Contacts {
		names[c.WaID] = c.Profile.Name
	}

	for _, m := range value.Messages {
		if m.Type != "text" {
			continue // media and interactive messages are out of scope
		}
		err := h.ingestMessage(value.Metadata.PhoneNumberID, m.From, names[m.From], m.ID, m.Text.Body, parseUnix(m.Timestamp))
		if err != nil {
			log.Println("⚠️ failed to ingest inbound message:", err)
		}
	}

	for _, s := range value.Statuses {
		update := service.StatusUpdate{
			ProviderMessageID: s.ID,
			Status:            s.Status,
			Timestamp:         parseUnix(s.Timestamp),
		}
		if err := h.Reconciler.Apply(update); err != nil {
			log.Println("⚠️ failed to apply status callback:", err)
		}
	}
}

func (h *WebhookHandler) ingestMessage(phoneNumberID, from, name, providerMessageID, body string, receivedAt time.Time) error {
	orgID, err := h.Orgs.GetOrgIDByPhoneNumberID(phoneNumberID)
	if err != nil {
		return err
	}
	if orgID == 0 {
		log.Println("inbound for unknown phone_number_id, dropping:", phoneNumberID)
		return nil
	}

	contact, err := h.Contacts.UpsertByPhone(orgID, from, name, receivedAt)
	if err != nil {
		return err
	}

	conversationID, err := h.Contacts.EnsureConversation(orgID, contact.ID)
	if err != nil {
		return err
	}

	inbound := &model.InboundMessage{
		OrgID:             orgID,
		ConversationID:    conversationID,
		ContactID:         contact.ID,
		Body:              body,
		ProviderMessageID: providerMessageID,
		ReceivedAt:        receivedAt,
	}
	if err := h.Inbound.Create(inbound); err != nil {
		return err
	}

	evt := model.InboundEvent{
		OrgID:          orgID,
		ContactID:      contact.ID,
		ConversationID: conversationID,
		MessageID:      inbound.ID,
		MessageBody:    body,
		PhoneNumberID:  phoneNumberID,
		ContactPhone:   contact.Phone,
	}

	if h.DispatchFunc != nil {
		if err := h.DispatchFunc(evt); err != nil {
			// queue trouble must not lose the automation run
			log.Println("⚠️ queue dispatch failed, running automation in-process:", err)
			h.Orchestrator.Dispatch(evt)
		}
		return nil
	}
	h.Orchestrator.Dispatch(evt)
	return nil
}

func parseUnix(s string) time.Time {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Now()
	}
	return time.Unix(secs, 0)
}

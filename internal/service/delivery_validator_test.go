package service_test

import (
	"errors"
	"testing"
	"time"

	appErrors "github.com/unclebandit/wachat-backend/internal/errors"
	"github.com/unclebandit/wachat-backend/internal/model"
	"github.com/unclebandit/wachat-backend/internal/service"
)

// MockTemplateRepo serves templates by name
type MockTemplateRepo struct {
	templates map[string]*model.MessageTemplate
}

func (m *MockTemplateRepo) GetByName(orgID int, name, language string) (*model.MessageTemplate, error) {
	return m.templates[name], nil
}

// MockContactRepo serves contacts by id
type MockContactRepo struct {
	contacts map[int]*model.Contact
}

func (m *MockContactRepo) GetByID(id int) (*model.Contact, error) {
	return m.contacts[id], nil
}

func (m *MockContactRepo) UpsertByPhone(orgID int, phone, name string, inboundAt time.Time) (*model.Contact, error) {
	c := &model.Contact{ID: len(m.contacts) + 1, OrgID: orgID, Phone: phone, Name: name, LastInboundAt: &inboundAt}
	m.contacts[c.ID] = c
	return c, nil
}

func (m *MockContactRepo) EnsureConversation(orgID, contactID int) (int, error) {
	return contactID, nil
}

func newValidator(templates map[string]*model.MessageTemplate, contacts map[int]*model.Contact) *service.DeliveryValidator {
	return &service.DeliveryValidator{
		TemplateRepo: &MockTemplateRepo{templates: templates},
		ContactRepo:  &MockContactRepo{contacts: contacts},
	}
}

func recentContact(id int, age time.Duration) *model.Contact {
	at := time.Now().Add(-age)
	return &model.Contact{ID: id, OrgID: 1, Phone: "254700000001", LastInboundAt: &at}
}

func TestApprovedTemplatePasses(t *testing.T) {
	for _, status := range []string{"APPROVED", "ACTIVE", "PENDING_QUALITY"} {
		v := newValidator(map[string]*model.MessageTemplate{
			"welcome_offer": {Name: "welcome_offer", Status: status},
		}, nil)

		err := v.Validate(service.SendRequest{OrgID: 1, ContactID: 1, TemplateName: "welcome_offer", TemplateLanguage: "en"})
		if err != nil {
			t.Errorf("status %s: expected pass, got %v", status, err)
		}
	}
}

func TestUnapprovedTemplateRejectedWithStatus(t *testing.T) {
	v := newValidator(map[string]*model.MessageTemplate{
		"flash_sale": {Name: "flash_sale", Status: "REJECTED"},
	}, nil)

	err := v.Validate(service.SendRequest{OrgID: 1, ContactID: 1, TemplateName: "flash_sale", TemplateLanguage: "en"})
	var notApproved *appErrors.ErrTemplateNotApproved
	if !errors.As(err, &notApproved) {
		t.Fatalf("expected ErrTemplateNotApproved, got %v", err)
	}
	if notApproved.Status != "REJECTED" {
		t.Errorf("rejection must name the actual status, got %q", notApproved.Status)
	}
}

func TestUnknownTemplateRejected(t *testing.T) {
	v := newValidator(map[string]*model.MessageTemplate{}, nil)

	err := v.Validate(service.SendRequest{OrgID: 1, ContactID: 1, TemplateName: "ghost", TemplateLanguage: "en"})
	var notFound *appErrors.ErrTemplateNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestTemplateBypassesEngagementWindow(t *testing.T) {
	// contact has never written in; a template send must still pass
	v := newValidator(map[string]*model.MessageTemplate{
		"welcome_offer": {Name: "welcome_offer", Status: "APPROVED"},
	}, map[int]*model.Contact{
		5: {ID: 5, OrgID: 1, Phone: "254700000001", LastInboundAt: nil},
	})

	err := v.Validate(service.SendRequest{OrgID: 1, ContactID: 5, TemplateName: "welcome_offer", TemplateLanguage: "en"})
	if err != nil {
		t.Fatalf("template send must bypass the window check, got %v", err)
	}
}

func TestFreeTextInsideWindowPasses(t *testing.T) {
	v := newValidator(nil, map[int]*model.Contact{
		5: recentContact(5, 2*time.Hour),
	})

	err := v.Validate(service.SendRequest{OrgID: 1, ContactID: 5, Body: "thanks for reaching out"})
	if err != nil {
		t.Fatalf("expected pass 2h after last inbound, got %v", err)
	}
}

func TestFreeTextOutsideWindowRejected(t *testing.T) {
	v := newValidator(nil, map[int]*model.Contact{
		5: recentContact(5, 25*time.Hour),
	})

	err := v.Validate(service.SendRequest{OrgID: 1, ContactID: 5, Body: "hello again"})
	var window *appErrors.ErrOutsideEngagementWindow
	if !errors.As(err, &window) {
		t.Fatalf("expected engagement-window rejection, got %v", err)
	}
	if window.HoursSinceInbound < 24 {
		t.Errorf("expected reported hours >= 24, got %.1f", window.HoursSinceInbound)
	}
}

func TestFreeTextWithNoInboundRejected(t *testing.T) {
	v := newValidator(nil, map[int]*model.Contact{
		5: {ID: 5, OrgID: 1, Phone: "254700000001"},
	})

	err := v.Validate(service.SendRequest{OrgID: 1, ContactID: 5, Body: "hello?"})
	var window *appErrors.ErrOutsideEngagementWindow
	if !errors.As(err, &window) {
		t.Fatalf("expected engagement-window rejection, got %v", err)
	}
	if !window.NoInbound {
		t.Error("expected NoInbound flag when the contact never wrote in")
	}
}

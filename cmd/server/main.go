// cmd/server/main.go
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/unclebandit/wachat-backend/internal/controller"
	"github.com/unclebandit/wachat-backend/internal/db"
	"github.com/unclebandit/wachat-backend/internal/events"
	"github.com/unclebandit/wachat-backend/internal/handler"
	"github.com/unclebandit/wachat-backend/internal/model"
	"github.com/unclebandit/wachat-backend/internal/provider"
	"github.com/unclebandit/wachat-backend/internal/queue"
	"github.com/unclebandit/wachat-backend/internal/repository"
	"github.com/unclebandit/wachat-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	orgRepo := &repository.OrganizationRepository{DB: db.DB}
	contactRepo := &repository.ContactRepository{DB: db.DB}
	inboundRepo := &repository.InboundMessageRepository{DB: db.DB}
	outboundRepo := &repository.OutboundMessageRepository{DB: db.DB}
	ruleRepo := &repository.RuleRepository{DB: db.DB}
	hoursRepo := &repository.BusinessHoursRepository{DB: db.DB}
	logRepo := &repository.AutomationLogRepository{DB: db.DB}
	templateRepo := &repository.TemplateRepository{DB: db.DB}
	statusEventRepo := &repository.StatusEventRepository{DB: db.DB}

	q := queue.NewInMemoryQueue()
	events.StartLogSubscriber(q)
	notifier := &events.Notifier{Queue: q}

	validator := &service.DeliveryValidator{
		TemplateRepo: templateRepo,
		ContactRepo:  contactRepo,
	}
	executor := &service.DeliveryExecutor{
		Validator:    validator,
		OutboundRepo: outboundRepo,
		Provider:     provider.NewClient(),
		Events:       notifier,
	}
	orchestrator := &service.Orchestrator{
		Hours:    &service.BusinessHoursService{HoursRepo: hoursRepo},
		Limiter:  &service.RateLimiter{LogRepo: logRepo},
		Matcher:  &service.RuleMatcher{RuleRepo: ruleRepo},
		Executor: executor,
		LogRepo:  logRepo,
		Events:   notifier,
	}
	reconciler := &service.StatusReconciler{
		OutboundRepo:    outboundRepo,
		StatusEventRepo: statusEventRepo,
		Events:          notifier,
	}

	webhookHandler := &handler.WebhookHandler{
		Orgs:         orgRepo,
		Contacts:     contactRepo,
		Inbound:      inboundRepo,
		Orchestrator: orchestrator,
		Reconciler:   reconciler,
		VerifyToken:  os.Getenv("WEBHOOK_VERIFY_TOKEN"),
		DispatchFunc: amqpDispatcher(os.Getenv("AMQP_URL")),
	}

	messageController := &controller.MessageController{
		Executor:     executor,
		OutboundRepo: outboundRepo,
		ContactRepo:  contactRepo,
		LogRepo:      logRepo,
	}

	r := chi.NewRouter()

	// Webhook routes (Cloud API callbacks)
	r.Get("/webhook", webhookHandler.Verify)
	r.Post("/webhook", webhookHandler.Receive)

	// Operator routes
	r.Post("/messages/{id}/resubmit", messageController.ResubmitMessage)
	r.Get("/automation/logs", messageController.ListAutomationLogs)

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}

// amqpDispatcher publishes inbound events to the inbound_events queue when
// AMQP_URL is set, so a separate worker process runs automation. Without it
// the webhook handler falls back to in-process dispatch.
func amqpDispatcher(amqpURL string) func(evt model.InboundEvent) error {
	if amqpURL == "" {
		return nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Println("⚠️ Failed to connect to RabbitMQ, using in-process automation:", err)
		return nil
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Println("⚠️ Failed to open RabbitMQ channel, using in-process automation:", err)
		return nil
	}

	queueName := "inbound_events"
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Println("⚠️ Failed to declare queue, using in-process automation:", err)
		return nil
	}

	log.Println("✅ Publishing inbound events to RabbitMQ")
	return func(evt model.InboundEvent) error {
		body, err := json.Marshal(evt)
		if err != nil {
			return err
		}
		return ch.Publish("", queueName, false, false, amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	}
}

package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/unclebandit/wachat-backend/internal/db"
	"github.com/unclebandit/wachat-backend/internal/model"
	"github.com/unclebandit/wachat-backend/internal/provider"
	"github.com/unclebandit/wachat-backend/internal/repository"
	"github.com/unclebandit/wachat-backend/internal/service"
)

// Worker consumes inbound events from RabbitMQ and runs the automation chain
// for each, for deployments where webhook ingestion and automation are split
// into separate processes.
func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    db.Init()

    contactRepo := &repository.ContactRepository{DB: db.DB}
    outboundRepo := &repository.OutboundMessageRepository{DB: db.DB}
    ruleRepo := &repository.RuleRepository{DB: db.DB}
    hoursRepo := &repository.BusinessHoursRepository{DB: db.DB}
    logRepo := &repository.AutomationLogRepository{DB: db.DB}
    templateRepo := &repository.TemplateRepository{DB: db.DB}

    validator := &service.DeliveryValidator{
        TemplateRepo: templateRepo,
        ContactRepo:  contactRepo,
    }
    orchestrator := &service.Orchestrator{
        Hours:   &service.BusinessHoursService{HoursRepo: hoursRepo},
        Limiter: &service.RateLimiter{LogRepo: logRepo},
        Matcher: &service.RuleMatcher{RuleRepo: ruleRepo},
        Executor: &service.DeliveryExecutor{
            Validator:    validator,
            OutboundRepo: outboundRepo,
            Provider:     provider.NewClient(),
        },
        LogRepo: logRepo,
    }

    // Connect to RabbitMQ
    conn, err := amqp.Dial(os.Getenv("AMQP_URL"))
    if err != nil {
        log.Fatal("Failed to connect to RabbitMQ:", err)
    }
    defer conn.Close()

    ch, err := conn.Channel()
    if err != nil {
        log.Fatal("Failed to open a channel:", err)
    }
    defer ch.Close()

    q, err := ch.QueueDeclare(
        "inbound_events", // name
        true,             // durable
        false,            // delete when unused
        false,            // exclusive
        false,            // no-wait
        nil,              // arguments
    )
    if err != nil {
        log.Fatal("Failed to declare queue:", err)
    }

    msgs, err := ch.Consume(
        q.Name,
        "",
        false, // autoAck = false for reliability
        false,
        false,
        false,
        nil,
    )
    if err != nil {
        log.Fatal("Failed to register consumer:", err)
    }

    forever := make(chan bool)

    go func() {
        for d := range msgs {
            var evt model.InboundEvent
            if err := json.Unmarshal(d.Body, &evt); err != nil {
                log.Println("Invalid inbound event:", err)
                d.Ack(false)
                continue
            }

            // Run the chain synchronously; the orchestrator already retries
            // provider calls, so requeue only covers storage-level errors.
            if err := orchestrator.HandleInbound(evt); err != nil {
                log.Println("Automation failed for message", evt.MessageID, ":", err)
                retries := retryCount(d.Headers)
                if retries < 3 {
                    perr := ch.Publish("", q.Name, false, false, amqp.Publishing{
                        ContentType: "application/json",
                        Body:        d.Body,
                        Headers:     amqp.Table{"x-retry-count": int32(retries + 1)},
                    })
                    if perr != nil {
                        log.Println("Failed to requeue inbound event:", perr)
                    }
                } else {
                    log.Println("Dropping inbound event after", retries, "requeues:", evt.MessageID)
                }
            }

            d.Ack(false)
        }
    }()

    log.Println("Worker running, waiting for inbound events...")
    <-forever
}

func retryCount(headers amqp.Table) int {
    switch v := headers["x-retry-count"].(type) {
    case int:
        return v
    case int32:
        return int(v)
    case int64:
        return int(v)
    }
    return 0
}

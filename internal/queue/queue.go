package queue

import (
	"fmt"
	"log"
	"sync"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue fans payloads out to in-process subscribers. Realtime
// notification events ride this queue; delivery is fire-and-forget because a
// dropped broadcast only costs a UI refresh, never a stored message.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// Publish sends a message to all subscribers, each on its own goroutine so a
// slow subscriber never holds up the publisher.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go q.deliver(topic, handler, payload)
	}

	return nil
}

func (q *InMemoryQueue) deliver(topic string, handler func(payload any) error, payload any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ subscriber panic on topic %s: %v\n", topic, r)
		}
	}()

	if err := handler(payload); err != nil {
		log.Printf("⚠️ subscriber error on topic %s: %v\n", topic, err)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

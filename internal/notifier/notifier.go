// Package notifier delivers best-effort email notifications through
// RabbitMQ. The API publishes EmailMessage events and a background consumer
// delivers them, so a slow or failing mail channel never delays or fails
// the request that triggered it.
package notifier

import (
	"context"
	"log"
)

// EmailMessage is the payload published to the notification queue.
type EmailMessage struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	QueuedAt  string `json:"queued_at"`
}

// Publisher enqueues an email for asynchronous delivery.
type Publisher interface {
	PublishEmail(ctx context.Context, msg EmailMessage) error
}

// Send publishes msg and swallows any failure. Every notification in this
// service is best-effort: the caller's transaction has already been
// committed, so a broker outage is only worth a log line.
func Send(ctx context.Context, p Publisher, msg EmailMessage) {
	if p == nil {
		return
	}
	if err := p.PublishEmail(ctx, msg); err != nil {
		log.Printf("notifier: email to %s not queued: %v", msg.Recipient, err)
	}
}

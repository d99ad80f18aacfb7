package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

// Publisher is the subset of *amqp.Channel used to publish events.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// TransitionNotifier publishes committed status changes to a queue.
type TransitionNotifier struct {
	channel Publisher
	queue   string
	timeout time.Duration
}

// NewTransitionNotifier constructs the notifier.
func NewTransitionNotifier(channel Publisher, queue string, timeout time.Duration) *TransitionNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TransitionNotifier{channel: channel, queue: queue, timeout: timeout}
}

// Notify publishes the event as persistent JSON on the default exchange.
func (n *TransitionNotifier) Notify(ctx context.Context, event models.TransitionEvent) error {
	if event.Type == "" {
		event.Type = models.EventStatusChanged
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transition event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}
	if err := n.channel.PublishWithContext(ctx, "", n.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s for submission %d: %w", event.Type, event.SubmissionID, err)
	}
	return nil
}

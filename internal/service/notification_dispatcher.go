package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/pkg/jobs"
)

// NotificationDispatcher publishes transition events off the request path,
// retrying failed publishes in the background.
type NotificationDispatcher struct {
	queue *jobs.Queue[models.TransitionEvent]
}

// NewNotificationDispatcher wraps notifier with a worker queue.
func NewNotificationDispatcher(notifier transitionNotifier, cfg jobs.QueueConfig) *NotificationDispatcher {
	handler := func(ctx context.Context, job jobs.Job[models.TransitionEvent]) error {
		return notifier.Notify(ctx, job.Payload)
	}
	return &NotificationDispatcher{queue: jobs.NewQueue("transition-notifications", handler, cfg)}
}

// Start launches the publishing workers.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop waits for the workers to exit. Events still buffered are dropped.
func (d *NotificationDispatcher) Stop() {
	d.queue.Stop()
}

// Notify queues event for publishing without waiting. When the buffer is
// full the event is dropped and jobs.ErrQueueFull is returned.
func (d *NotificationDispatcher) Notify(_ context.Context, event models.TransitionEvent) error {
	return d.queue.TryEnqueue(jobs.Job[models.TransitionEvent]{
		ID:      uuid.NewString(),
		Type:    event.Type,
		Payload: event,
	})
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

type publisherStub struct {
	key      string
	msg      amqp.Publishing
	deadline bool
	err      error
}

func (p *publisherStub) PublishWithContext(ctx context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	p.key = key
	p.msg = msg
	_, p.deadline = ctx.Deadline()
	return p.err
}

func TestTransitionNotifierPublishes(t *testing.T) {
	pub := &publisherStub{}
	notifier := NewTransitionNotifier(pub, "submission_status", time.Second)

	err := notifier.Notify(context.Background(), models.TransitionEvent{
		SubmissionID: 4,
		FromStatus:   models.StatusApproved,
		ToStatus:     models.StatusSent,
	})
	require.NoError(t, err)

	assert.Equal(t, "submission_status", pub.key)
	assert.True(t, pub.deadline)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, models.EventStatusChanged, pub.msg.Type)
	assert.NotEmpty(t, pub.msg.MessageId)

	var event models.TransitionEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &event))
	assert.Equal(t, int64(4), event.SubmissionID)
	assert.Equal(t, models.StatusSent, event.ToStatus)
}

func TestTransitionNotifierWrapsPublishError(t *testing.T) {
	pub := &publisherStub{err: amqp.ErrClosed}
	notifier := NewTransitionNotifier(pub, "q", 0)

	err := notifier.Notify(context.Background(), models.TransitionEvent{SubmissionID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, amqp.ErrClosed))
}

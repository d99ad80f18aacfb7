package broker

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hkwon327/timesheet-dashboard/pkg/config"
)

// Connection bundles the AMQP connection with the channel used for publishing.
type Connection struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Queue   string
}

// NewRabbitMQ dials the broker, opens a channel and declares the durable queue.
func NewRabbitMQ(cfg config.RabbitMQConfig) (*Connection, error) {
	conn, err := amqp.Dial(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", cfg.Queue, err)
	}

	return &Connection{Conn: conn, Channel: ch, Queue: cfg.Queue}, nil
}

// Close releases the channel then the connection.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Conn != nil {
		return c.Conn.Close()
	}
	return nil
}

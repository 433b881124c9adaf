// Package service provides publishers that push domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/achievement-registry/internal/queue"
)

const defaultDialTimeout = 30 * time.Second

// AMQPPublisher publishes unlock events to a durable queue. Unlocks are rare
// (at most one event per achievement per process), so each publish dials its
// own connection instead of holding one open.
type AMQPPublisher struct {
	URL   string
	Queue string
	Log   *zap.Logger
}

// NewAMQPPublisher returns a publisher for the given broker URL and queue.
func NewAMQPPublisher(url, queueName string, log *zap.Logger) *AMQPPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPPublisher{URL: url, Queue: queueName, Log: log}
}

// PublishUnlocked publishes ev as a persistent JSON message.
func (p *AMQPPublisher) PublishUnlocked(ctx context.Context, ev queue.AchievementUnlockedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := dial(ctx, p.URL)
	if err != nil {
		p.Log.Debug("rabbitmq dial failed", zap.Error(err))
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Debug("rabbitmq channel open failed", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := queue.DeclareQueue(ch, p.Queue); err != nil {
		p.Log.Debug("rabbitmq queue declare failed", zap.String("queue", p.Queue), zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// Default exchange; routing key is the queue name.
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.Log.Debug("rabbitmq publish failed", zap.String("queue", p.Queue), zap.Error(err))
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// dial connects to the broker within ctx's deadline, or within the default
// 30s connection timeout when ctx has none.
func dial(ctx context.Context, url string) (*amqp.Connection, error) {
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// NopPublisher drops every event. It is wired when events are disabled.
type NopPublisher struct{}

// PublishUnlocked implements the publisher contract and does nothing.
func (NopPublisher) PublishUnlocked(context.Context, queue.AchievementUnlockedEvent) error {
	return nil
}

// Package messaging forwards domain events to RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/frahmantamala/expense-tracker/internal/core/events"
)

const publishTimeout = 5 * time.Second

// Channel is the publishing half of *amqp091.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Message is the JSON body of every forwarded event.
type Message struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

func NewMessage(event events.Event) Message {
	return Message{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt().UTC(),
		Data:       event.Payload(),
	}
}

type Client struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	publisher Channel
	exchange  string
	queue     string
	logger    *slog.Logger
}

// Dial connects, declares a durable topic exchange and a queue bound to every
// routing key on it.
func Dial(url, exchange, queue string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:      conn,
		channel:   channel,
		publisher: channel,
		exchange:  exchange,
		queue:     queue,
		logger:    orDefault(logger),
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

// NewPublisher wraps an already open channel. The client can publish but not
// consume.
func NewPublisher(ch Channel, exchange string, logger *slog.Logger) *Client {
	return &Client{
		publisher: ch,
		exchange:  exchange,
		logger:    orDefault(logger),
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if c.queue == "" {
		return nil
	}

	_, err = c.channel.QueueDeclare(
		c.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(c.queue, "#", c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Forward publishes event as a persistent JSON message routed by its type.
func (c *Client) Forward(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(NewMessage(event))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.publisher.PublishWithContext(
		ctx,
		c.exchange,        // exchange
		event.EventType(), // routing key
		false,             // mandatory
		false,             // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.EventID(),
			Type:         event.EventType(),
			Timestamp:    event.OccurredAt(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.logger.DebugContext(ctx, "forwarded event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"exchange", c.exchange)
	return nil
}

// PingContext reports whether the broker connection is still open.
func (c *Client) PingContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("AMQP connection closed")
	}
	return nil
}

// Attach subscribes Forward to the given event types on bus, or to every
// event when none are named.
func (c *Client) Attach(bus *events.EventBus, eventTypes ...string) {
	if len(eventTypes) == 0 {
		bus.SubscribeAll(c.Forward)
		return
	}
	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, c.Forward)
	}
}

// Consume delivers messages from the bound queue until ctx is done. Malformed
// bodies are dropped; handler failures are requeued.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, Message) error) error {
	if c.channel == nil || c.queue == "" {
		return errors.New("client has no queue to consume from")
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "started consuming events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "stopping event consumption", "reason", ctx.Err())
			return nil
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, delivery amqp091.Delivery, handler func(context.Context, Message) error) {
	var msg Message
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		c.logger.ErrorContext(ctx, "failed to unmarshal message", "error", err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		c.logger.ErrorContext(ctx, "failed to handle message",
			"error", err,
			"event_type", msg.Type,
			"event_id", msg.ID)
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

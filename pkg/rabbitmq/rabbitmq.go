// Package rabbitmq publishes kitchen events to a topic exchange and consumes them.
package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ErrNotConnected is returned when the client has no open channel.
var ErrNotConnected = errors.New("rabbitmq channel is not available")

// Bindings the consumer queue subscribes to.
var defaultBindings = []string{"order.*", "menu.*"}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	mu       sync.Mutex
	logger   *zap.SugaredLogger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

// Event is the envelope of every published message.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// NewClient connects to RabbitMQ, declares the topic exchange and binds the kitchen queue to it.
func NewClient(cfg Config, logger *zap.SugaredLogger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch, cfg.Exchange, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Infow("RabbitMQ client connected", "exchange", cfg.Exchange, "queue", cfg.Queue)
	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		logger:   logger,
	}, nil
}

func declare(ch *amqp.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	for _, key := range defaultBindings {
		if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", queue, key, err)
		}
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends payload wrapped in an Event as a persistent JSON message.
func (c *Client) Publish(routingKey string, payload interface{}) error {
	if c == nil || c.channel == nil {
		return ErrNotConnected
	}

	body, err := Encode(routingKey, payload, time.Now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.logger.Debugw("event published", "routing_key", routingKey)
	return nil
}

// Consume delivers messages from the kitchen queue to handler until the channel closes.
// A handler error nacks and requeues the message.
func (c *Client) Consume(handler func(msg amqp.Delivery) error) error {
	if c == nil || c.channel == nil {
		return ErrNotConnected
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Infow("waiting for kitchen events", "queue", c.queue)
	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.logger.Warnw("error processing message", "delivery_tag", msg.DeliveryTag, "error", err)
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					c.logger.Errorw("error nacking message", "delivery_tag", msg.DeliveryTag, "error", requeueErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.Errorw("error acking message", "delivery_tag", msg.DeliveryTag, "error", ackErr)
			}
		}
	}()
	return nil
}

// Encode marshals payload into an Event envelope.
func Encode(routingKey string, payload interface{}, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", routingKey, err)
	}
	body, err := json.Marshal(Event{Type: routingKey, OccurredAt: at.UTC(), Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	return body, nil
}

// Decode parses a message body produced by Encode.
func Decode(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("malformed event: %w", err)
	}
	if ev.Type == "" {
		return nil, errors.New("malformed event: missing type")
	}
	return &ev, nil
}

// KitchenLogger returns a handler that logs every event for the kitchen display.
// Malformed messages are logged and acknowledged so they are not redelivered forever.
func KitchenLogger(logger *zap.SugaredLogger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		ev, err := Decode(msg.Body)
		if err != nil {
			logger.Warnw("dropping kitchen event", "routing_key", msg.RoutingKey, "error", err)
			return nil
		}
		logger.Infow("kitchen event", "type", ev.Type, "occurred_at", ev.OccurredAt, "payload", string(ev.Payload))
		return nil
	}
}

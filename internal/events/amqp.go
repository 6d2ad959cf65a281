package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const confirmTimeout = 5 * time.Second

var ErrNotAcknowledged = errors.New("broker did not acknowledge event")

// AMQPPublisher sends events as persistent JSON messages to a durable queue
// and waits for the broker to confirm each one.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	confirms chan amqp.Confirmation
	closed   chan *amqp.Error
	// tag is the delivery tag of the last message sent on channel.
	tag uint64
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.Confirm(false)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	_, err = ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	p := &AMQPPublisher{
		conn:     conn,
		channel:  ch,
		queue:    queue,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		closed:   conn.NotifyClose(make(chan *amqp.Error, 1)),
	}
	slog.Info("rabbitmq publisher ready", "queue", queue)
	return p, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case cerr := <-p.closed:
		return fmt.Errorf("rabbitmq connection closed: %v", cerr)
	default:
	}

	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         e.Type,
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}

	p.tag++

	// Confirms arrive in tag order whether or not ctx is still live.
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmTimeout)
	defer cancel()
	err = awaitConfirm(waitCtx, p.confirms, p.tag)
	if err != nil {
		return fmt.Errorf("failed to confirm %s: %w", e.Type, err)
	}
	return nil
}

// awaitConfirm reads confirmations until the one for tag arrives. Older tags
// belong to publishes that gave up waiting and are dropped.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64) error {
	for {
		select {
		case c, ok := <-confirms:
			if !ok {
				return ErrNotAcknowledged
			}
			if c.DeliveryTag < tag {
				slog.Debug("dropping stale publisher confirm", "tag", c.DeliveryTag, "want", tag)
				continue
			}
			if !c.Ack || c.DeliveryTag != tag {
				return ErrNotAcknowledged
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.channel.Close()
	return p.conn.Close()
}

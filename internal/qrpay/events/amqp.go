package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPublisherClosed = errors.New("events: amqp publisher closed")

// AMQPConfig configures the broker side of AMQPPublisher.
type AMQPConfig struct {
	URL      string
	Exchange string
	// ConfirmTimeout bounds the wait for a broker ack. Defaults to 5s.
	ConfirmTimeout time.Duration
}

// AMQPPublisher publishes events to a durable topic exchange with the topic
// as routing key. Publishes wait for the broker confirm. A dropped channel
// is re-dialed on the next publish.
type AMQPPublisher struct {
	cfg AMQPConfig
	log *slog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

func NewAMQPPublisher(cfg AMQPConfig, logger *slog.Logger) (*AMQPPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("events: amqp url is required")
	}
	if cfg.Exchange == "" {
		cfg.Exchange = "qrpay.events"
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &AMQPPublisher{
		cfg: cfg,
		log: logger.With("component", "events.amqp", "exchange", cfg.Exchange),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect must be called with p.mu held.
func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("events: amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("events: amqp channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("events: amqp confirm mode: %w", err)
	}

	err = ch.ExchangeDeclare(
		p.cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("events: amqp declare exchange: %w", err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(ctx context.Context, topic string, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}
	if p.ch == nil || p.ch.IsClosed() {
		p.log.Warn("amqp channel closed, reconnecting")
		p.release()
		if err := p.connect(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    uuid.NewString(),
		Type:         ev.Type,
		Body:         body,
		Headers: amqp.Table{
			"origin":     "qrpay",
			"event_type": ev.Type,
		},
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.cfg.Exchange, topic, false, false, msg)
	if err != nil {
		return fmt.Errorf("events: amqp publish: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.cfg.ConfirmTimeout)
	defer cancel()

	acked, err := confirm.WaitContext(waitCtx)
	if err != nil {
		return fmt.Errorf("events: amqp confirm: %w", err)
	}
	if !acked {
		return errors.New("events: amqp publish nacked by broker")
	}
	return nil
}

// Ping reports whether the broker connection is usable.
func (p *AMQPPublisher) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("events: amqp connection closed")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.release()
}

func (p *AMQPPublisher) release() error {
	var errs []error
	if p.ch != nil && !p.ch.IsClosed() {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}
	p.ch = nil
	p.conn = nil
	return errors.Join(errs...)
}

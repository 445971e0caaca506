// Package events delivers payment progress updates to live subscribers.
// A Publisher is best effort: callers log failures and carry on.
package events

import (
	"context"
	"errors"
)

// TypePaymentProgress is the event type broadcast after a successful verification.
const TypePaymentProgress = "payment.progress"

// Event is the envelope written to subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, ev Event) error
}

// PublisherFunc adapts a function to a Publisher.
type PublisherFunc func(ctx context.Context, topic string, ev Event) error

func (f PublisherFunc) Publish(ctx context.Context, topic string, ev Event) error {
	return f(ctx, topic, ev)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }

// Fanout publishes to every publisher in order and joins their errors. One
// failing publisher does not stop delivery to the rest.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, topic string, ev Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, topic, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package events carries domain events (review created, order status changed) to Kafka and to
// connected websocket clients.
package events

import (
	"context"
	"errors"
	"time"
)

const (
	TopicReviews = "wedding.reviews"
	TopicOrders  = "wedding.orders"

	ReviewCreated      = "review.created"
	ReviewRewarded     = "review.rewarded"
	OrderStatusChanged = "order.status_changed"
)

type Event struct {
	Type    string    `json:"type"`
	UserID  uint      `json:"userId"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, ev Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, string, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, topic string, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, topic, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
	Topics []string
}

func (r *Recorder) Publish(_ context.Context, topic string, ev Event) error {
	r.Topics = append(r.Topics, topic)
	r.Events = append(r.Events, ev)
	return nil
}

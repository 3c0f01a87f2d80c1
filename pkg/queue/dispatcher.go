package queue

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded message. Returning false or a non-nil error
// rejects the delivery, which is then redelivered according to the retry policy.
type Handler[T any] func(ctx context.Context, msg T) (bool, error)

// dispatcher drives the acknowledgment protocol of a single consumer.
// Deliveries are handled one at a time, in the order the broker hands them out.
type dispatcher[T any] struct {
	typeName string
	handler  Handler[T]
	codec    Codec
	// requeue is false only when rejected deliveries are dead-lettered to a retry queue.
	requeue bool
	logger  Logger
	metrics MetricsRecorder
	// onEnd, when set, runs after the last delivery and before done is closed.
	onEnd func()
}

// run returns once the delivery channel is closed by a consumer cancel, a channel close
// or a lost connection.
func (d *dispatcher[T]) run(ctx context.Context, deliveries <-chan amqp.Delivery, done chan<- struct{}) {
	defer close(done)

	for delivery := range deliveries {
		d.dispatch(ctx, delivery)
	}

	d.logger.Debug().Msg("delivery channel closed, dispatcher stopped")

	if d.onEnd != nil {
		d.onEnd()
	}
}

func (d *dispatcher[T]) dispatch(ctx context.Context, delivery amqp.Delivery) {
	start := time.Now()

	var (
		outcome string
		err     error
	)

	if d.handle(ctx, delivery) {
		outcome = OutcomeAcked
		err = delivery.Ack(false)
	} else {
		outcome = OutcomeRejected
		if d.requeue {
			outcome = OutcomeRequeued
		}

		err = delivery.Nack(false, d.requeue)
	}

	if err != nil {
		outcome = OutcomeFailed

		d.logger.Error().
			Err(err).
			Str("delivery_tag", fmt.Sprint(delivery.DeliveryTag)).
			Msg("failed to settle delivery")
	}

	d.metrics.RecordDelivery(ctx, d.typeName, outcome, time.Since(start))
}

// handle decodes the delivery and runs the handler. Decode failures, handler errors
// and panics all count as not handled.
func (d *dispatcher[T]) handle(ctx context.Context, delivery amqp.Delivery) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Str("message_id", delivery.MessageId).
				Msg("message handler panicked")

			handled = false
		}
	}()

	var msg T
	if err := d.codec.Unmarshal(delivery.Body, &msg); err != nil {
		d.logger.Warn().
			Err(err).
			Str("content_type", delivery.ContentType).
			Msg("failed to decode message")

		return false
	}

	ok, err := d.handler(ctx, msg)
	if err != nil {
		d.logger.Warn().Err(err).Msg("message handler failed")

		return false
	}

	if !ok {
		d.logger.Debug().Msg("message was not handled")
	}

	return ok
}

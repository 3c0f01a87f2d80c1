// Package queue provides a typed RabbitMQ client for point-to-point and fan-out
// messaging with at-least-once delivery.
//
// # Overview
//
// One Client is created per message type. The name of the type is used for every
// broker object the client declares, lazily and exactly once, on first use:
//
//	Send / StartReceiving   durable queue {Type} on the default exchange
//	Publish                 direct exchange {Type}, routing key ALL
//	StartSubscribing        queue bound to exchange {Type} on ALL
//
// A transient subscription uses an exclusive, auto-deleted queue named by the broker.
// A durable subscription uses the queue {Type}-{SubscriberGroup}, shared by all the
// processes of a group. When Config.RedeliveryDelay is set, the durable subscription
// also gets a retry exchange and queue named {Type}-{SubscriberGroup}-retry: rejected
// messages are dead-lettered there, expire after the delay and are routed back to the
// group queue only, through the binding on the group name.
//
// # Basic Usage
//
//	cfg := queue.Config{
//		Scheme:          "amqp",
//		Username:        "guest",
//		Password:        "guest",
//		Hosts:           []string{"rabbitmq-1:5672", "rabbitmq-2:5672"},
//		Vhost:           "/",
//		SubscriberGroup: "job-tracker",
//		RedeliveryDelay: 5 * time.Second,
//	}
//
//	client, err := queue.NewClient[JobStageReported](cfg, queue.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	err = client.StartSubscribing(ctx, false, func(ctx context.Context, msg JobStageReported) (bool, error) {
//		return tracker.Track(ctx, msg)
//	})
//
// # Acknowledgment
//
// Deliveries are consumed with manual acknowledgment and a prefetch of one, so a
// consumer holds at most one unacknowledged message and processes messages in order.
// A handler returning true acknowledges the delivery. Returning false, an error, a
// panic or an undecodable body rejects it: it is requeued at once, or dead-lettered
// to the retry queue when the subscription has a redelivery delay.
//
// # Publisher Confirmation
//
// Send and Publish return after the broker confirmed the message, or fail with a
// *DeliveryError once the confirmation timeout elapsed. Retrying is up to the caller.
// A confirmation only proves that the broker accepted the message, not that it reached
// disk: a broker crash right after the confirmation can still lose it.
//
// # Connection Loss
//
// The client does not reconnect. Config.OnConnectionLost is called when the broker
// drops the connection and every following operation returns ErrConnectionLost.
//
// A delivery channel that closes while the client is consuming, because the broker
// cancelled the consumer or closed the channel, moves the client to StateConsumerLost
// and closes Done. Watch Done to notice a consumer that stopped on its own.
package queue

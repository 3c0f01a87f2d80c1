package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrUnnamedMessageType is returned when the message type has no name to derive queue and exchange names from.
	ErrUnnamedMessageType = errors.New("message type must be a named type")
	// ErrNoBrokerNodes is returned when the configuration does not list any broker node.
	ErrNoBrokerNodes = errors.New("no broker nodes configured")
	// ErrMissingSubscriberGroup is returned when a durable subscription is requested without a subscriber group.
	ErrMissingSubscriberGroup = errors.New("durable subscription requires a subscriber group")

	// ErrSubscribeAfterWorkQueue is returned by StartSubscribing once the client created a work queue.
	ErrSubscribeAfterWorkQueue = errors.New("cannot subscribe: client already uses a work queue")
	// ErrWorkQueueAfterSubscribe is returned by Send and StartReceiving once the client created a subscription.
	ErrWorkQueueAfterSubscribe = errors.New("cannot use work queue: client already uses a subscription")
	// ErrAlreadyConsuming is returned when a consumer is started twice.
	ErrAlreadyConsuming = errors.New("client is already consuming")
	// ErrClientStopped is returned when a consumer is started on a stopped client.
	ErrClientStopped = errors.New("client was stopped and cannot consume again")
	// ErrNilHandler is returned when a consumer is started without a handler.
	ErrNilHandler = errors.New("handler must not be nil")
	// ErrClientClosed is returned by every operation after Close.
	ErrClientClosed = errors.New("client is closed")

	// ErrConnectionLost is returned after the broker dropped the connection.
	ErrConnectionLost = errors.New("broker connection lost")
	// ErrConsumerLost is returned when a consumer is started after its delivery channel closed unexpectedly.
	ErrConsumerLost = errors.New("consumer was cancelled by the broker")
	// ErrConfirmTimeout describes a publisher confirmation that did not arrive in time.
	ErrConfirmTimeout = errors.New("timed out waiting for publisher confirmation")
	// ErrNegativeConfirm describes a publish the broker refused to accept.
	ErrNegativeConfirm = errors.New("broker negatively acknowledged the message")
	// ErrConfirmModeDisabled is returned when a channel hands out no confirmation for a publish.
	ErrConfirmModeDisabled = errors.New("channel is not in confirm mode")
)

type (
	// TopologyError describes a broker refusing to declare or bind a topology object.
	// It always denotes a deployment misconfiguration and is never retried.
	TopologyError struct {
		Op   string
		Name string
		Err  error
	}

	// ConnectionError describes a failure to connect to any configured broker node.
	ConnectionError struct {
		Nodes int
		Err   error
	}

	// DeliveryError describes a publish that was not confirmed by the broker.
	// Retrying the whole operation is up to the caller.
	DeliveryError struct {
		MessageType string
		Exchange    string
		RoutingKey  string
		Err         error
	}
)

func (e *TopologyError) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *TopologyError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to any of %d broker node(s): %v", e.Nodes, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *DeliveryError) Error() string {
	exchange := e.Exchange
	if exchange == "" {
		exchange = "(default)"
	}

	return fmt.Sprintf("failed to deliver %s to exchange %s with routing key %q: %v",
		e.MessageType, exchange, e.RoutingKey, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is fatal and must not be retried:
// broker declaration conflicts, unreachable or unauthenticated brokers and misuse of a client.
func IsConfigurationError(err error) bool {
	var topologyErr *TopologyError
	var connErr *ConnectionError

	switch {
	case errors.As(err, &topologyErr), errors.As(err, &connErr):
		return true
	case errors.Is(err, ErrSubscribeAfterWorkQueue),
		errors.Is(err, ErrWorkQueueAfterSubscribe),
		errors.Is(err, ErrMissingSubscriberGroup),
		errors.Is(err, ErrNoBrokerNodes),
		errors.Is(err, ErrUnnamedMessageType):
		return true
	default:
		return false
	}
}

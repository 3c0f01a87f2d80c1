package queue

import (
	"time"
)

const (
	defaultConfirmTimeout = 5 * time.Second
	prefetchCount         = 1
)

type clientOptions struct {
	logger         Logger
	codec          Codec
	metrics        MetricsRecorder
	typeName       string
	confirmTimeout time.Duration
	dial           dialFunc
}

// ClientOption configures a NewClient call.
type ClientOption func(options *clientOptions)

// WithLogger returns a ClientOption which sets the logger used by the client.
func WithLogger(l Logger) ClientOption {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCodec returns a ClientOption which replaces the JSON payload codec.
func WithCodec(c Codec) ClientOption {
	return func(o *clientOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithMetrics returns a ClientOption which records publish and delivery outcomes.
func WithMetrics(m MetricsRecorder) ClientOption {
	return func(o *clientOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTypeName returns a ClientOption which overrides the name derived from the message type.
// Use it when producers and consumers do not share the Go type.
func WithTypeName(name string) ClientOption {
	return func(o *clientOptions) {
		o.typeName = name
	}
}

// WithConfirmTimeout returns a ClientOption which sets how long Send and Publish
// wait for the broker to confirm a message.
func WithConfirmTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.confirmTimeout = d
		}
	}
}

func withDialer(dial dialFunc) ClientOption {
	return func(o *clientOptions) {
		o.dial = dial
	}
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		logger:         nopLogger{},
		codec:          JSONCodec{},
		metrics:        nopMetrics{},
		confirmTimeout: defaultConfirmTimeout,
		dial:           dialAMQP,
	}
}

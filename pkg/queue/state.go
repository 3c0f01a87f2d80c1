package queue

// State is the lifecycle position of a Client.
type State int

const (
	// StateIdle means no broker object was declared yet.
	StateIdle State = iota
	// StateTopologyReady means the topology of at least one mode exists.
	StateTopologyReady
	// StateConsuming means a consumer is attached to the client queue.
	StateConsuming
	// StateStopped means the consumer was cancelled. It cannot be restarted.
	StateStopped
	// StateClosed means the channel and the connection were released.
	StateClosed
	// StateConsumerLost means the delivery channel closed without Stop or Close, for
	// example after the broker cancelled the consumer. It cannot be restarted.
	StateConsumerLost
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTopologyReady:
		return "topology_ready"
	case StateConsuming:
		return "consuming"
	case StateStopped:
		return "stopped"
	case StateClosed:
		return "closed"
	case StateConsumerLost:
		return "consumer_lost"
	default:
		return "unknown"
	}
}

// mode records which topology a client committed to. A client either owns a work
// queue or a subscription, the fan-out exchange can be used by both.
type mode int

const (
	modeNone mode = iota
	modeWorkQueue
	modeSubscription
)

// canStartConsuming reports the usage error, if any, of attaching a consumer in state s.
func (s State) canStartConsuming() error {
	switch s {
	case StateConsuming:
		return ErrAlreadyConsuming
	case StateStopped:
		return ErrClientStopped
	case StateClosed:
		return ErrClientClosed
	case StateConsumerLost:
		return ErrConsumerLost
	default:
		return nil
	}
}

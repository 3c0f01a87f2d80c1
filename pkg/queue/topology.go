package queue

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// RoutingKeyAll is the binding key every subscription uses to receive all published messages.
	RoutingKeyAll = "ALL"

	retrySuffix = "-retry"

	argDeadLetterExchange   = "x-dead-letter-exchange"
	argDeadLetterRoutingKey = "x-dead-letter-routing-key"
	argMessageTTL           = "x-message-ttl"
)

type (
	exchangeDeclaration struct {
		name    string
		kind    string
		durable bool
	}

	queueDeclaration struct {
		name       string
		durable    bool
		autoDelete bool
		exclusive  bool
		args       amqp.Table
	}

	// bindingDeclaration binds a queue to an exchange. An empty queue refers to the
	// main queue of the topology, whose name may only be known once the broker assigned it.
	bindingDeclaration struct {
		queue    string
		exchange string
		key      string
	}

	// topology is the ordered set of broker objects a usage mode requires.
	// Exchanges are declared first, then queues, then bindings.
	topology struct {
		exchanges []exchangeDeclaration
		queues    []queueDeclaration
		bindings  []bindingDeclaration
	}
)

// workQueueTopology is a single durable queue reached through the default exchange.
func workQueueTopology(typeName string) topology {
	return topology{
		queues: []queueDeclaration{
			{name: typeName, durable: true},
		},
	}
}

func exchangeTopology(typeName string) topology {
	return topology{
		exchanges: []exchangeDeclaration{
			{name: typeName, kind: amqp.ExchangeDirect, durable: true},
		},
	}
}

func subscriptionTopology(typeName string, transient bool, group string, delay time.Duration) (topology, error) {
	t := exchangeTopology(typeName)

	if transient {
		t.queues = append(t.queues, queueDeclaration{autoDelete: true, exclusive: true})
		t.bindings = append(t.bindings, bindingDeclaration{exchange: typeName, key: RoutingKeyAll})

		return t, nil
	}

	if group == "" {
		return topology{}, ErrMissingSubscriberGroup
	}

	queueName := fmt.Sprintf("%s-%s", typeName, group)

	if delay <= 0 {
		t.queues = append(t.queues, queueDeclaration{name: queueName, durable: true})
		t.bindings = append(t.bindings, bindingDeclaration{exchange: typeName, key: RoutingKeyAll})

		return t, nil
	}

	retryName := queueName + retrySuffix

	t.exchanges = append(t.exchanges, exchangeDeclaration{name: retryName, kind: amqp.ExchangeDirect, durable: true})
	t.queues = append(t.queues,
		queueDeclaration{
			name:    queueName,
			durable: true,
			args: amqp.Table{
				argDeadLetterExchange:   retryName,
				argDeadLetterRoutingKey: "",
			},
		},
		queueDeclaration{
			name:    retryName,
			durable: true,
			args: amqp.Table{
				argMessageTTL:           delay.Milliseconds(),
				argDeadLetterExchange:   typeName,
				argDeadLetterRoutingKey: group,
			},
		},
	)
	t.bindings = append(t.bindings,
		bindingDeclaration{queue: retryName, exchange: retryName, key: ""},
		bindingDeclaration{exchange: typeName, key: RoutingKeyAll},
		bindingDeclaration{exchange: typeName, key: group},
	)

	return t, nil
}

// declare creates every object of the topology on ch and returns the name of the main queue,
// which is empty for topologies without queues.
func (t topology) declare(ch channel) (string, error) {
	for _, e := range t.exchanges {
		if err := ch.exchangeDeclare(e.name, e.kind, e.durable, false, false, false, nil); err != nil {
			return "", &TopologyError{Op: "declare exchange", Name: e.name, Err: err}
		}
	}

	var mainQueue string

	for i, q := range t.queues {
		declared, err := ch.queueDeclare(q.name, q.durable, q.autoDelete, q.exclusive, false, q.args)
		if err != nil {
			return "", &TopologyError{Op: "declare queue", Name: q.name, Err: err}
		}

		if i == 0 {
			mainQueue = declared.Name
			if mainQueue == "" {
				mainQueue = q.name
			}
		}
	}

	for _, b := range t.bindings {
		queueName := b.queue
		if queueName == "" {
			queueName = mainQueue
		}

		if err := ch.queueBind(queueName, b.key, b.exchange, false, nil); err != nil {
			return "", &TopologyError{
				Op:   "bind queue",
				Name: fmt.Sprintf("%s to %s on %q", queueName, b.exchange, b.key),
				Err:  err,
			}
		}
	}

	return mainQueue, nil
}

package queue

import (
	"errors"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"
)

// connection is used mainly to be able to replace the broker connection in tests.
type connection interface {
	channel(logger Logger) (channel, error)
	notifyClose(receiver chan *amqp.Error) chan *amqp.Error
	IsClosed() bool
	Close() error
}

type dialFunc func(url string, cfg amqp.Config) (connection, error)

type amqpConnection struct {
	conn *amqp.Connection
}

func dialAMQP(url string, cfg amqp.Config) (connection, error) {
	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, err
	}

	return &amqpConnection{conn: conn}, nil
}

func (c *amqpConnection) channel(logger Logger) (channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}

	return newChannelWrapper(ch, logger), nil
}

func (c *amqpConnection) notifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	return c.conn.NotifyClose(receiver)
}

func (c *amqpConnection) IsClosed() bool {
	return c.conn.IsClosed()
}

func (c *amqpConnection) Close() error {
	return c.conn.Close()
}

// connect tries the configured nodes in order and returns the first connection accepted.
func connect(cfg Config, dial dialFunc, logger Logger) (connection, error) {
	nodes := cfg.nodes()
	if len(nodes) == 0 {
		return nil, ErrNoBrokerNodes
	}

	dialCfg := cfg.dialConfig()

	var errs error
	for _, node := range nodes {
		conn, err := dial(getURL(cfg, node), dialCfg)
		if err == nil {
			logger.Info().Str("node", node).Msg("connected to broker")

			return conn, nil
		}

		logger.Warn().Err(err).Str("node", node).Msg("failed to connect to broker node")
		errs = errors.Join(errs, err)
	}

	return nil, &ConnectionError{Nodes: len(nodes), Err: errs}
}

// watchConnection marks the connection as lost once the broker closes it with an error.
// A graceful Close closes the notification channel without an error and is ignored.
func watchConnection(conn connection, lost *atomic.Bool, onLost func(*amqp.Error), logger Logger) {
	notify := conn.notifyClose(make(chan *amqp.Error, 1))

	go func() {
		amqpErr, ok := <-notify
		if !ok || amqpErr == nil {
			return
		}

		lost.Store(true)

		logger.Error().Err(amqpErr).Msg("broker connection lost")

		if onLost != nil {
			onLost(amqpErr)
		}
	}()
}

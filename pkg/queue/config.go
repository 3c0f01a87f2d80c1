package queue

import (
	"net"
	"strconv"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultPlainPort = 5672
	defaultTLSPort   = 5671
	defaultHeartbeat = 10 * time.Second
)

// Config is used to establish a connection with a RabbitMQ cluster and to shape
// the subscription topology of every client created from it.
type Config struct {
	Scheme   string
	Username string
	Password string
	// Hosts lists the broker nodes as host or host:port. They are tried in order
	// until one accepts the connection.
	Hosts []string
	Vhost string

	// SubscriberGroup names the durable subscription queue {Type}-{SubscriberGroup}
	// and is the routing key used to redeliver retried messages to this group only.
	SubscriberGroup string
	// RedeliveryDelay parks rejected messages of a durable subscription in the
	// retry queue for this long. Zero requeues rejected messages immediately.
	RedeliveryDelay time.Duration

	Heartbeat      time.Duration
	ConnectionName string

	// OnConnectionLost is called once when the broker closes the connection with
	// an error. The client does not reconnect.
	OnConnectionLost func(err *amqp.Error)
}

func getURL(cfg Config, node string) string {
	host, port := splitNode(cfg.Scheme, node)

	uri := amqp.URI{
		Scheme:   cfg.Scheme,
		Username: cfg.Username,
		Password: cfg.Password,
		Host:     host,
		Port:     port,
		Vhost:    cfg.Vhost,
	}

	return uri.String()
}

// nodes returns the configured broker nodes in connection order, skipping blanks.
func (cfg Config) nodes() []string {
	nodes := make([]string, 0, len(cfg.Hosts))
	for _, node := range cfg.Hosts {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}

		nodes = append(nodes, node)
	}

	return nodes
}

func splitNode(scheme, node string) (string, int) {
	port := defaultPlainPort
	if scheme == "amqps" {
		port = defaultTLSPort
	}

	host, rawPort, err := net.SplitHostPort(node)
	if err != nil {
		return node, port
	}

	if p, err := strconv.Atoi(rawPort); err == nil {
		port = p
	}

	return host, port
}

func (cfg Config) dialConfig() amqp.Config {
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	props := amqp.NewConnectionProperties()
	if cfg.ConnectionName != "" {
		props.SetClientConnectionName(cfg.ConnectionName)
	}

	return amqp.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
	}
}

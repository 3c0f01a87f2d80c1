package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		Scheme:          "amqp",
		Nodes:           []string{"rabbitmq-1:5672", "rabbitmq-2:5672"},
		Username:        "svc",
		Password:        "secret",
		VirtualHost:     "/",
		SubscriberGroup: "from-env",
		RedeliveryDelay: 250,
		ConfirmTimeout:  2 * time.Second,
	}
}

func TestNewQueueClient(t *testing.T) {
	t.Parallel()

	client, err := NewQueueClient[domain.JobStageReported](
		testQueueConfig(),
		QueueClientSpec{Group: "job-tracker"},
		NewTestLogger(),
		&NoOpMetrics{},
	)
	require.NoError(t, err)

	assert.Equal(t, "JobStageReported", client.MessageType())
	assert.Equal(t, queue.StateIdle, client.State())
	assert.NoError(t, client.Close())
}

func TestNewQueueClient_NoNodes(t *testing.T) {
	t.Parallel()

	cfg := testQueueConfig()
	cfg.Nodes = []string{" ", ""}

	_, err := NewQueueClient[domain.PlanTrip](cfg, QueueClientSpec{}, NewTestLogger(), &NoOpMetrics{})

	assert.ErrorIs(t, err, queue.ErrNoBrokerNodes)
}

func TestQueueConfig_ClientConfig(t *testing.T) {
	t.Parallel()

	cfg := testQueueConfig()

	fromEnv := cfg.ClientConfig("", 0)
	assert.Equal(t, "from-env", fromEnv.SubscriberGroup)
	assert.Equal(t, 250*time.Millisecond, fromEnv.RedeliveryDelay)
	assert.Equal(t, cfg.Nodes, fromEnv.Hosts)

	overridden := cfg.ClientConfig("job-tracker", 5*time.Second)
	assert.Equal(t, "job-tracker", overridden.SubscriberGroup)
	assert.Equal(t, 5*time.Second, overridden.RedeliveryDelay)
}

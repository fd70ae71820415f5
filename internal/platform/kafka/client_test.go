package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifepath/internal/platform/config"
)

func TestNewClientWithoutBrokers(t *testing.T) {
	client, err := NewClient(config.KafkaConfig{Topic: "lifepath.events"})
	require.NoError(t, err)
	assert.Nil(t, client, "no brokers means Kafka is disabled")
}

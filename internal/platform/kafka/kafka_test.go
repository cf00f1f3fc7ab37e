package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"localhost:9092", "kafka:9093"}, ParseBrokers(" localhost:9092, ,kafka:9093 "))
	assert.Empty(t, ParseBrokers(""))
}

func TestNewWriter(t *testing.T) {
	assert.Nil(t, NewWriter(Config{}, nil))

	w := NewWriter(Config{Brokers: []string{"localhost:9092"}}, nil)
	require.NotNil(t, w)
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.True(t, w.Async)
	require.NoError(t, w.Close())
}

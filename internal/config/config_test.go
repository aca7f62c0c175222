package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StreamSourceSSE, cfg.StreamSource)
	assert.Equal(t, "eventos-tracking", cfg.KafkaTopic)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.HeartbeatTick)
	assert.Equal(t, "http://localhost:8000/stream", cfg.StreamURL())
	assert.Equal(t, "http://localhost:8000/v1/graphql", cfg.GraphQLURL())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "http://bff:8003/")
	t.Setenv("STREAM_SOURCE", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SESSION_TTL", "5m")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StreamSourceKafka, cfg.StreamSource)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "http://bff:8003/v1/graphql", cfg.GraphQLURL())
}

func TestLoadConfig_InvalidStreamSource(t *testing.T) {
	t.Setenv("STREAM_SOURCE", "websocket")

	_, err := LoadConfig()

	assert.Error(t, err)
}

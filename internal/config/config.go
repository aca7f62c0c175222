package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Fuentes posibles del stream de notificaciones.
const (
	StreamSourceSSE   = "sse"
	StreamSourceKafka = "kafka"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upstream (BFF) que expone /stream y /v1/graphql
	UpstreamURL string        `env:"UPSTREAM_URL" envDefault:"http://localhost:8000"`
	StreamPath  string        `env:"STREAM_PATH" envDefault:"/stream"`
	GraphQLPath string        `env:"GRAPHQL_PATH" envDefault:"/v1/graphql"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	StreamSource string   `env:"STREAM_SOURCE" envDefault:"sse"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"eventos-tracking"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"alpesui-notificaciones"`

	UseRedis    bool   `env:"USE_REDIS" envDefault:"false"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	FeedChannel string `env:"FEED_CHANNEL" envDefault:"alpesui:feed"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	HeartbeatTick time.Duration `env:"HEARTBEAT_INTERVAL" envDefault:"15s"`
}

// StreamURL devuelve la URL completa del stream upstream.
func (c *Config) StreamURL() string {
	return strings.TrimRight(c.UpstreamURL, "/") + c.StreamPath
}

// GraphQLURL devuelve la URL completa del endpoint GraphQL upstream.
func (c *Config) GraphQLURL() string {
	return strings.TrimRight(c.UpstreamURL, "/") + c.GraphQLPath
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.StreamSource {
	case StreamSourceSSE, StreamSourceKafka:
	default:
		return nil, fmt.Errorf("STREAM_SOURCE inválido %q (usa %q o %q)", cfg.StreamSource, StreamSourceSSE, StreamSourceKafka)
	}

	return cfg, nil
}

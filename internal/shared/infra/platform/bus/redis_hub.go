package bus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisHub reparte los mensajes entre réplicas con Pub/Sub de Redis. Cada
// réplica entrega después a sus propios suscriptores.
type RedisHub struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

var _ Hub = (*RedisHub)(nil)

func NewRedisHub(client *redis.Client, channel string, log *zap.Logger) *RedisHub {
	return &RedisHub{client: client, channel: channel, log: log}
}

func (h *RedisHub) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.client.Publish(ctx, h.channel, payload).Err()
}

func (h *RedisHub) Subscribe(ctx context.Context, buffer int) (<-chan Message, func()) {
	ctx, stop := context.WithCancel(ctx)
	pubsub := h.client.Subscribe(ctx, h.channel)
	out := make(chan Message, buffer)

	// espera la confirmación del SUBSCRIBE para no perder lo publicado justo después
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Warn("⚠️ Suscripción a Redis sin confirmar", zap.String("channel", h.channel), zap.Error(err))
	}

	go func() {
		defer close(out)
		defer pubsub.Close()

		in := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					h.log.Warn("Failed to unmarshal hub message", zap.String("channel", m.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- msg:
				default:
					h.log.Warn("Suscriptor lento, mensaje descartado", zap.String("id", msg.ID))
				}
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(stop) }
}

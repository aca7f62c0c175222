package events

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler es el mismo contrato que cumple el Listener del stream.
type MessageHandler interface {
	OnOpen(ctx context.Context)
	OnError(ctx context.Context, err error)
	HandleMessage(ctx context.Context, key string, payload []byte)
}

// MessageReader es la parte de *kafka.Reader que usa el adaptador.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Config() kafka.ReaderConfig
}

// ConsumerAdapter lee las notificaciones del topic de tracking en Kafka y las
// pasa por el mismo Listener que el stream SSE.
type ConsumerAdapter struct {
	reader  MessageReader
	handler MessageHandler
	log     *zap.Logger
}

func NewConsumerAdapter(reader MessageReader, handler MessageHandler, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{
		reader:  reader,
		handler: handler,
		log:     log,
	}
}

// NewTrackingReader construye el *kafka.Reader para el topic de notificaciones.
func NewTrackingReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,    // notificaciones pequeñas, sin esperar lotes
		MaxBytes: 10e6, // 10MB
	})
}

// Start inicia el bucle de consumo de mensajes en una goroutine.
func (c *ConsumerAdapter) Start(ctx context.Context) {
	c.log.Info("🎧 Iniciando consumidor de Kafka...",
		zap.String("topic", c.reader.Config().Topic),
		zap.Strings("brokers", c.reader.Config().Brokers),
	)

	go c.Run(ctx)
}

// Run consume hasta que el contexto se cancela.
func (c *ConsumerAdapter) Run(ctx context.Context) {
	c.handler.OnOpen(ctx)
	healthy := true

	for {
		// ReadMessage es una llamada bloqueante.
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			// Si el contexto se cancela, el error es normal y salimos limpiamente.
			if ctx.Err() != nil {
				c.log.Info("Consumidor de Kafka detenido.", zap.String("topic", c.reader.Config().Topic))
				return
			}
			if healthy {
				c.handler.OnError(ctx, err)
				healthy = false
			}
			c.log.Error("Error al leer mensaje de Kafka", zap.Error(err))
			continue
		}

		if !healthy {
			c.handler.OnOpen(ctx)
			healthy = true
		}
		c.handler.HandleMessage(ctx, string(msg.Key), msg.Value)
	}
}

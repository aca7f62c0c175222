package bus

import (
	"context"
	"time"
)

// Tipos de mensaje que viajan por el hub hacia los navegadores.
const (
	KindNotification = "notificacion"
	KindStatus       = "estado"
)

// Message es un fragmento ya renderizado destinado a un contenedor.
type Message struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Container string    `json:"container"`
	HTML      string    `json:"html"`
	SentAt    time.Time `json:"sentAt"`
}

// Hub reparte los fragmentos a todos los suscriptores (feed local y relays SSE).
type Hub interface {
	Publish(ctx context.Context, msg Message) error
	// Subscribe devuelve un canal de mensajes y la función para darse de baja.
	Subscribe(ctx context.Context, buffer int) (<-chan Message, func())
}

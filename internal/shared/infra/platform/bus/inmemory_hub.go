package bus

import (
	"context"
	"sync"
)

// InMemoryHub reparte mensajes con canales de Go dentro del proceso.
type InMemoryHub struct {
	subscribers map[chan Message]struct{}
	mu          sync.RWMutex
	onDrop      func(Message)
}

var _ Hub = (*InMemoryHub)(nil)

// NewInMemoryHub crea el hub. onDrop (opcional) se llama cuando un suscriptor
// lento pierde un mensaje porque su buffer está lleno.
func NewInMemoryHub(onDrop func(Message)) *InMemoryHub {
	return &InMemoryHub{
		subscribers: make(map[chan Message]struct{}),
		onDrop:      onDrop,
	}
}

// Publish entrega el mensaje a todos los suscriptores sin bloquear.
func (h *InMemoryHub) Publish(ctx context.Context, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- msg:
		default:
			if h.onDrop != nil {
				h.onDrop(msg)
			}
		}
	}
	return nil
}

// Subscribe registra un nuevo oyente. El canal se cierra al darse de baja o
// al cancelarse el contexto.
func (h *InMemoryHub) Subscribe(ctx context.Context, buffer int) (<-chan Message, func()) {
	ch := make(chan Message, buffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
			close(done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel
}

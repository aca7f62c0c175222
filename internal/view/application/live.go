package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/alpesui/internal/shared/infra/platform/bus"
	sdomain "github.com/davicafu/alpesui/internal/stream/domain"
	"github.com/davicafu/alpesui/internal/view/domain"
)

// Notifier pinta cada evento del stream como tarjeta de notificación y la
// publica en el hub. Implementa el EventRenderer del listener.
type Notifier struct {
	hub bus.Hub
	tpl *Templates
	now func() time.Time
	log *zap.Logger
}

func NewNotifier(hub bus.Hub, tpl *Templates, log *zap.Logger) *Notifier {
	return &Notifier{hub: hub, tpl: tpl, now: time.Now, log: log}
}

func (n *Notifier) RenderEvent(ctx context.Context, evt sdomain.StreamEvent) {
	html, err := n.tpl.Render("notificacion", evt)
	if err != nil {
		n.log.Error("❌ Error pintando notificación", zap.Error(err))
		return
	}

	msg := bus.Message{
		Kind:      bus.KindNotification,
		ID:        uuid.NewString(),
		Container: domain.ContainerFeed,
		HTML:      html,
		SentAt:    n.now(),
	}
	if err := n.hub.Publish(ctx, msg); err != nil {
		n.log.Error("❌ Error publicando notificación", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	n.log.Info("🎉 Notificación publicada", zap.String("id", msg.ID), zap.String("tipoEvento", evt.TipoEvento))
}

// Feed es la lista de notificaciones en vivo. Solo crece: no hay ventana ni
// expulsión de entradas antiguas.
type Feed struct {
	mu    sync.RWMutex
	cards []domain.NotificationCard
}

func NewFeed() *Feed {
	return &Feed{}
}

// Append añade la tarjeta al final.
func (f *Feed) Append(card domain.NotificationCard) {
	f.mu.Lock()
	f.cards = append(f.cards, card)
	f.mu.Unlock()
}

// Snapshot devuelve una copia de las tarjetas en orden de llegada.
func (f *Feed) Snapshot() []domain.NotificationCard {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.NotificationCard, len(f.cards))
	copy(out, f.cards)
	return out
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cards)
}

// Follow añade al feed cada notificación que llega por el hub hasta que se
// cancele el contexto.
func (f *Feed) Follow(ctx context.Context, hub bus.Hub, log *zap.Logger) {
	msgs, cancel := hub.Subscribe(ctx, 64)
	defer cancel()

	f.consume(msgs)
	log.Info("🛑 Feed detenido", zap.Int("cards", f.Len()))
}

func (f *Feed) consume(msgs <-chan bus.Message) {
	for msg := range msgs {
		if msg.Kind != bus.KindNotification {
			continue
		}
		sentAt := msg.SentAt
		if sentAt.IsZero() {
			sentAt = time.Now()
		}
		f.Append(domain.NotificationCard{
			ID:             msg.ID,
			HTML:           msg.HTML,
			ReceivedAt:     sentAt,
			HighlightUntil: sentAt.Add(domain.HighlightWindow),
		})
	}
}

type statusView struct {
	Color string
	Texto string
}

func viewOfStatus(s sdomain.ConnectionStatus) statusView {
	switch s {
	case sdomain.StatusConnected:
		return statusView{Color: "green", Texto: "Conectado"}
	case sdomain.StatusError:
		return statusView{Color: "red", Texto: "Error"}
	}
	return statusView{Color: "orange", Texto: string(s)}
}

// StatusBoard guarda el estado de la conexión al stream y lo difunde a los
// navegadores. Implementa el StatusReporter del listener.
type StatusBoard struct {
	hub bus.Hub
	tpl *Templates
	log *zap.Logger

	mu     sync.RWMutex
	status sdomain.ConnectionStatus
}

func NewStatusBoard(hub bus.Hub, tpl *Templates, log *zap.Logger) *StatusBoard {
	return &StatusBoard{hub: hub, tpl: tpl, log: log, status: sdomain.StatusConnecting}
}

func (b *StatusBoard) SetStatus(ctx context.Context, status sdomain.ConnectionStatus) {
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()

	html, err := b.Render()
	if err != nil {
		b.log.Error("❌ Error pintando estado", zap.Error(err))
		return
	}
	msg := bus.Message{Kind: bus.KindStatus, ID: string(status), Container: domain.ContainerStatus, HTML: html, SentAt: time.Now()}
	if err := b.hub.Publish(ctx, msg); err != nil {
		b.log.Warn("⚠️ No se pudo difundir el estado", zap.Error(err))
	}
}

func (b *StatusBoard) Current() sdomain.ConnectionStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// Render pinta el badge del estado actual.
func (b *StatusBoard) Render() (string, error) {
	return b.tpl.Render("estado", viewOfStatus(b.Current()))
}

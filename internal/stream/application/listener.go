package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/alpesui/internal/shared/infra/platform/metrics"
	"github.com/davicafu/alpesui/internal/stream/domain"
)

// EventRenderer recibe cada notificación ya decodificada.
type EventRenderer interface {
	RenderEvent(ctx context.Context, evt domain.StreamEvent)
}

// StatusReporter actualiza el indicador de conexión.
type StatusReporter interface {
	SetStatus(ctx context.Context, status domain.ConnectionStatus)
}

// Listener consume los mensajes crudos de una fuente (SSE o Kafka) y los
// entrega al renderer. No reconecta: eso es responsabilidad del transporte.
type Listener struct {
	renderer EventRenderer
	status   StatusReporter
	now      func() time.Time
	log      *zap.Logger

	// los callbacks de mensaje nunca se solapan
	mu sync.Mutex
}

func NewListener(renderer EventRenderer, status StatusReporter, log *zap.Logger) *Listener {
	return &Listener{
		renderer: renderer,
		status:   status,
		now:      time.Now,
		log:      log,
	}
}

// OnOpen se invoca cuando el transporte abre la suscripción.
func (l *Listener) OnOpen(ctx context.Context) {
	l.log.Info("✅ Stream conectado")
	metrics.StreamConnected.Set(1)
	l.status.SetStatus(ctx, domain.StatusConnected)
}

// OnError se invoca ante un fallo del transporte. Solo cambia el indicador.
func (l *Listener) OnError(ctx context.Context, err error) {
	l.log.Error("❌ Error en el stream", zap.Error(err))
	metrics.StreamConnected.Set(0)
	l.status.SetStatus(ctx, domain.StatusError)
}

// HandleMessage procesa un payload del stream. Cumple la interfaz
// MessageHandler de los adaptadores de consumo.
func (l *Listener) HandleMessage(ctx context.Context, key string, payload []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := string(payload)
	if domain.IsHeartbeat(data) {
		l.log.Debug("🔄 Keep-alive recibido")
		metrics.StreamMessages.WithLabelValues(metrics.OutcomeHeartbeat).Inc()
		return
	}

	evt, err := domain.DecodePayload(data, l.now())
	if err != nil {
		l.log.Warn("Failed to decode stream payload",
			zap.String("key", key),
			zap.String("raw", domain.LogSafe(data)),
			zap.Error(err),
		)
		metrics.StreamMessages.WithLabelValues(metrics.OutcomeMalformed).Inc()
		return
	}

	l.log.Info("📨 Evento recibido",
		zap.String("tipo_evento", evt.TipoEvento),
		zap.String("id_evento", evt.IDEvento),
		zap.String("id_socio", evt.IDSocio),
	)
	metrics.StreamMessages.WithLabelValues(metrics.OutcomeRendered).Inc()
	l.renderer.RenderEvent(ctx, evt)
}

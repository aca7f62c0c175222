package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultRetry es el tiempo de reconexión que usan los navegadores si el
// servidor no anuncia otro con "retry:".
const DefaultRetry = 3 * time.Second

var (
	ErrStreamClosed = errors.New("stream closed by server")
	// ErrBadResponse cierra la suscripción de forma definitiva (status != 200
	// o content-type distinto de text/event-stream), igual que un EventSource.
	ErrBadResponse = errors.New("invalid event-stream response")
)

// Handler recibe el ciclo de vida y los mensajes de la suscripción.
type Handler interface {
	OnOpen(ctx context.Context)
	OnError(ctx context.Context, err error)
	HandleMessage(ctx context.Context, key string, payload []byte)
}

// Subscriber mantiene abierta la suscripción al stream upstream. Hace el papel
// del EventSource del navegador: reabre tras cortes de red con el retraso
// anunciado por el servidor, sin backoff propio.
type Subscriber struct {
	client      *http.Client
	url         string
	handler     Handler
	retry       time.Duration
	lastEventID string
	log         *zap.Logger
}

// NewSubscriber crea el suscriptor. El cliente no debe tener Timeout global:
// la respuesta es de larga duración.
func NewSubscriber(client *http.Client, url string, handler Handler, log *zap.Logger) *Subscriber {
	if client == nil {
		client = &http.Client{}
	}
	return &Subscriber{
		client:  client,
		url:     url,
		handler: handler,
		retry:   DefaultRetry,
		log:     log,
	}
}

// Start lanza Run en una goroutine.
func (s *Subscriber) Start(ctx context.Context) {
	s.log.Info("🔌 Conectando al stream...", zap.String("url", s.url))
	go s.Run(ctx)
}

// Run bloquea hasta que el contexto se cancela o el servidor responde algo
// que no es un event-stream.
func (s *Subscriber) Run(ctx context.Context) {
	for {
		err := s.connect(ctx)
		if ctx.Err() != nil {
			s.log.Info("Suscripción al stream detenida.")
			return
		}
		if err == nil {
			err = ErrStreamClosed
		}
		s.handler.OnError(ctx, err)

		if errors.Is(err, ErrBadResponse) {
			s.log.Error("Stream descartado, no se reintenta", zap.Error(err))
			return
		}

		select {
		case <-time.After(s.retry):
		case <-ctx.Done():
			s.log.Info("Suscripción al stream detenida.")
			return
		}
	}
}

func (s *Subscriber) connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if s.lastEventID != "" {
		req.Header.Set("Last-Event-ID", s.lastEventID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != "text/event-stream" {
		return fmt.Errorf("%w: content-type %q", ErrBadResponse, resp.Header.Get("Content-Type"))
	}

	s.handler.OnOpen(ctx)

	reader := NewReader(resp.Body)
	for {
		evt, err := reader.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if evt.Retry > 0 {
			s.retry = evt.Retry
		}
		if evt.ID != "" {
			s.lastEventID = evt.ID
		}
		// onmessage solo recibe eventos sin tipo o de tipo "message"
		if evt.Type != "" && evt.Type != "message" {
			continue
		}
		if evt.Data == "" {
			continue
		}
		s.handler.HandleMessage(ctx, evt.ID, []byte(evt.Data))
	}
}

package domain

import (
	"context"
	"fmt"
	"time"
)

// HighlightWindow es lo que dura el borde verde de una notificación nueva.
const HighlightWindow = 3 * time.Second

// NotificationCard es una tarjeta del feed en vivo ya renderizada.
type NotificationCard struct {
	ID             string
	HTML           string
	ReceivedAt     time.Time
	HighlightUntil time.Time
}

// Highlighted indica si la tarjeta sigue resaltada en el instante dado.
func (c NotificationCard) Highlighted(now time.Time) bool {
	return now.Before(c.HighlightUntil)
}

// Fragment es el contenido completo de un contenedor.
type Fragment struct {
	Container string
	HTML      string
}

// ---------- Interfaces (Ports) ----------

// ViewStore guarda el estado de vista de cada sesión del navegador.
type ViewStore interface {
	// Get devuelve ("", false, nil) si la clave no existe.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set reemplaza el valor completo.
	Set(ctx context.Context, key, val string) error
}

// ---------- Helpers de claves ----------

func ContainerKey(session, container string) string {
	return fmt.Sprintf("sesion:%s:contenedor:%s", session, container)
}

func PanelsKey(session string) string {
	return fmt.Sprintf("sesion:%s:paneles", session)
}

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss se devuelve cuando la clave no existe o expiró.
var ErrMiss = errors.New("cache miss")

// Store es una caché clave-valor de cadenas con TTL. Guarda el estado de vista
// de cada sesión del navegador (contenedores y paneles).
type Store interface {
	// Get devuelve ErrMiss si la clave no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda el valor con el TTL indicado; ttl <= 0 usa el TTL por defecto.
	Set(ctx context.Context, key, val string, ttl time.Duration) error

	// Delete elimina la clave de la caché.
	Delete(ctx context.Context, key string) error
}

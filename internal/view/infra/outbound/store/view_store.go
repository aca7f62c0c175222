package store

import (
	"context"
	"errors"
	"time"

	"github.com/davicafu/alpesui/internal/shared/infra/platform/cache"
	"github.com/davicafu/alpesui/internal/view/domain"
)

// CacheViewStore adapta la caché compartida (memoria o Redis) al puerto
// ViewStore. Cada escritura renueva el TTL de la clave de sesión.
type CacheViewStore struct {
	cache cache.Store
	ttl   time.Duration
}

var _ domain.ViewStore = (*CacheViewStore)(nil)

func NewCacheViewStore(c cache.Store, ttl time.Duration) *CacheViewStore {
	return &CacheViewStore{cache: c, ttl: ttl}
}

func (s *CacheViewStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (s *CacheViewStore) Set(ctx context.Context, key, val string) error {
	return s.cache.Set(ctx, key, val, s.ttl)
}

package cache

import (
	"context"
	"sync"
	"time"
)

// cacheItem guarda el valor y el tiempo de expiración.
type cacheItem struct {
	value     string
	expiresAt time.Time
}

// InMemoryCache implementa Store con un mapa en memoria.
type InMemoryCache struct {
	store      map[string]cacheItem
	mu         sync.RWMutex
	defaultTTL time.Duration
	stopChan   chan struct{}
	stopOnce   sync.Once
}

var _ Store = (*InMemoryCache)(nil)

// NewInMemoryCache crea una nueva instancia de la caché en memoria.
// - defaultTTL: El tiempo de vida por defecto para las claves si no se especifica otro.
// - cleanupInterval: Cada cuánto tiempo se revisarán y eliminarán las claves expiradas.
func NewInMemoryCache(defaultTTL, cleanupInterval time.Duration) *InMemoryCache {
	c := &InMemoryCache{
		store:      make(map[string]cacheItem),
		defaultTTL: defaultTTL,
		stopChan:   make(chan struct{}),
	}

	// Inicia el proceso de limpieza de items expirados en segundo plano.
	go c.cleanupLoop(cleanupInterval)

	return c
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.store[key]
	if !ok || time.Now().UTC().After(item.expiresAt) {
		return "", ErrMiss
	}
	return item.value, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = cacheItem{
		value:     val,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.store, key)
	return nil
}

// Stop detiene la goroutine de limpieza. Deberías llamarlo al apagar la aplicación.
func (c *InMemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

// cleanupLoop es la goroutine que se ejecuta periódicamente para limpiar claves expiradas.
func (c *InMemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now().UTC()
			c.mu.Lock()
			for key, item := range c.store {
				if now.After(item.expiresAt) {
					delete(c.store, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}

package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"quality_evaluator/pkg/contextx"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

// Memory is an in-process cache, one expiring store per namespace.
// Suitable for a single instance; use Redis when running more than one.
type Memory struct {
	ttl time.Duration

	mu     sync.RWMutex
	stores map[string]*gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:    ttl,
		stores: make(map[string]*gocache.Cache),
	}
}

func (m *Memory) Get(_ context.Context, namespace, key string) ([]byte, bool) {
	m.mu.RLock()
	store, ok := m.stores[namespace]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}

	raw, ok := store.Get(key)
	if !ok {
		return nil, false
	}

	data, ok := raw.([]byte)

	return data, ok
}

func (m *Memory) Put(_ context.Context, namespace, key string, value []byte) {
	m.store(namespace).Set(key, value, gocache.DefaultExpiration)
}

func (m *Memory) Evict(_ context.Context, namespace, key string) {
	m.mu.RLock()
	store, ok := m.stores[namespace]
	m.mu.RUnlock()

	if ok {
		store.Delete(key)
	}
}

func (m *Memory) EvictAll(_ context.Context, namespace string) {
	m.mu.RLock()
	store, ok := m.stores[namespace]
	m.mu.RUnlock()

	if ok {
		store.Flush()
	}
}

func (m *Memory) store(namespace string) *gocache.Cache {
	m.mu.RLock()
	store, ok := m.stores[namespace]
	m.mu.RUnlock()

	if ok {
		return store
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok = m.stores[namespace]; !ok {
		store = gocache.New(m.ttl, m.ttl)
		m.stores[namespace] = store
	}

	return store
}

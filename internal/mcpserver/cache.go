package mcpserver

import (
	"sync"
	"time"
)

// Cache는 키별로 마지막 값을 보관하고 ttl이 지나면 무효로 보는 캐시입니다.
// 서버는 재스캔 요약을 보관해 짧은 간격의 반복 재스캔을 막는 데 사용합니다.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// NewCache는 지정된 TTL로 새 캐시를 생성합니다.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get은 ttl 안에 저장된 값과 저장 시각을 반환합니다.
func (c *Cache[V]) Get(key string) (V, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, time.Time{}, false
	}
	return e.value, e.storedAt, true
}

// Set은 값을 현재 시각으로 저장합니다.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

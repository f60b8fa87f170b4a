package mcpserver

import (
	"testing"
	"time"
)

// TestCache_GetSet은 저장한 값을 조회할 수 있는지 테스트합니다.
func TestCache_GetSet(t *testing.T) {
	c := NewCache[int](time.Minute)

	if _, _, ok := c.Get("missing"); ok {
		t.Error("없는 키가 조회되었습니다")
	}

	before := time.Now()
	c.Set("key", 42)

	data, storedAt, ok := c.Get("key")
	if !ok {
		t.Fatal("저장한 키가 조회되지 않습니다")
	}
	if data != 42 {
		t.Errorf("data = %v, want 42", data)
	}
	if storedAt.Before(before) {
		t.Errorf("storedAt = %v, before %v", storedAt, before)
	}
}

// TestCache_Expiry는 TTL이 지난 값이 조회되지 않는지 테스트합니다.
func TestCache_Expiry(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[string](30 * time.Second)
	c.now = func() time.Time { return clock }

	c.Set("key", "value")

	clock = clock.Add(29 * time.Second)
	if _, _, ok := c.Get("key"); !ok {
		t.Error("TTL 안의 값이 조회되지 않습니다")
	}

	clock = clock.Add(time.Second)
	if v, _, ok := c.Get("key"); ok {
		t.Errorf("만료된 값이 조회되었습니다: %q", v)
	}
}

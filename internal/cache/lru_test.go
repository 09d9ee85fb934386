package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v; want 1, true", v, ok)
	}

	// a is now most recently used; adding c should evict b
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("k", 42)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry not found")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still returned")
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	removed := c.CleanExpired()
	if removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("user:1:overview:2026-08", 1)
	c.Set("user:1:overview:2026-07", 2)
	c.Set("user:2:overview:2026-08", 3)

	removed := c.DeletePrefix("user:1:")
	if removed != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", removed)
	}
	if _, ok := c.Get("user:2:overview:2026-08"); !ok {
		t.Error("unrelated key was removed")
	}
}

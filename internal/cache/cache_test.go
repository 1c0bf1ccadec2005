package cache

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func newCache(t *testing.T, capacity int64) *Cache {
	t.Helper()
	c, err := New(capacity)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestKey(t *testing.T) {
	if Key("hello", "en") != Key("hello", "en") {
		t.Error("key should be stable")
	}
	if Key("hello", "en") == Key("hello", "fr") {
		t.Error("language should change the key")
	}
	if got := len(Key("hello", "en")); got != 32 {
		t.Errorf("expected 32 hex chars, got %d", got)
	}
}

func TestGetPut(t *testing.T) {
	c := newCache(t, 1024)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	value := []byte("small value")
	if err := c.Put("a", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value[0] = 'X'

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "small value" {
		t.Errorf("cache should not alias caller memory, got %q", got)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Items != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.HitRate() != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", s.HitRate())
	}
}

func TestCompression(t *testing.T) {
	c := newCache(t, 1<<20)

	value := bytes.Repeat([]byte("compressible "), 1000)
	if err := c.Put("big", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	s := c.Stats()
	if s.Size >= int64(len(value)) {
		t.Errorf("expected compressed size below %d, got %d", len(value), s.Size)
	}
	if s.Saved <= 0 {
		t.Errorf("expected saved bytes, got %d", s.Saved)
	}

	got, ok := c.Get("big")
	if !ok || !bytes.Equal(got, value) {
		t.Error("compressed value did not round-trip")
	}
}

func TestEviction(t *testing.T) {
	c := newCache(t, 30)

	_ = c.Put("a", bytes.Repeat([]byte{1}, 10))
	_ = c.Put("b", bytes.Repeat([]byte{2}, 10))
	_ = c.Put("c", bytes.Repeat([]byte{3}, 10))

	// Touch "a" so "b" is the least recently used.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	_ = c.Put("d", bytes.Repeat([]byte{4}, 10))

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to remain", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("expected 1 eviction, got %d", got)
	}
}

func TestTooLargeAndDisabled(t *testing.T) {
	c := newCache(t, 8)
	if err := c.Put("x", []byte("this is more than eight bytes")); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("expected ErrItemTooLarge, got %v", err)
	}

	off := newCache(t, 0)
	if err := off.Put("x", []byte("v")); err != nil {
		t.Fatalf("disabled cache should accept puts silently: %v", err)
	}
	if _, ok := off.Get("x"); ok {
		t.Error("disabled cache should never hit")
	}
}

func TestDeleteClearPrune(t *testing.T) {
	c := newCache(t, 1024)
	_ = c.Put("a", []byte("1"))
	_ = c.Put("b", []byte("2"))

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}

	if n := c.Prune(time.Hour); n != 0 {
		t.Errorf("expected nothing pruned, got %d", n)
	}
	if n := c.Prune(-time.Second); n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}

	_ = c.Put("c", []byte("3"))
	c.Clear()
	if s := c.Stats(); s.Items != 0 || s.Size != 0 {
		t.Errorf("expected empty cache, got %+v", s)
	}
}

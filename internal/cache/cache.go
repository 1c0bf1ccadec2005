package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrItemTooLarge is returned when an item exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

// compressThreshold is the smallest value worth trying to compress.
const compressThreshold = 1024

// Stats holds cache counters.
type Stats struct {
	Capacity  int64 // bytes
	Size      int64 // bytes currently held (after compression)
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
	Saved     int64 // bytes saved by compression
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Key derives a cache key from the spoken text and its language.
func Key(text, lang string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s", lang, text)))
	return hex.EncodeToString(hash[:16])
}

type entry struct {
	key        string
	data       []byte
	size       int64
	compressed bool
	stored     time.Time
	hits       int64
}

// Cache is a size-bounded LRU of audio bytes. It is safe for concurrent use.
type Cache struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	stats Stats
}

// New creates a cache holding at most capacity bytes. A capacity of zero or
// less yields a cache that stores nothing.
func New(capacity int64) (*Cache, error) {
	if capacity < 0 {
		capacity = 0
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		encoder:  enc,
		decoder:  dec,
		stats:    Stats{Capacity: capacity},
	}, nil
}

// Get returns the value for key and whether it was present.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	e := elem.Value.(*entry)

	data := e.data
	if e.compressed {
		decoded, err := c.decoder.DecodeAll(e.data, nil)
		if err != nil {
			c.remove(elem)
			c.stats.Misses++
			return nil, false
		}
		data = decoded
	} else {
		data = append([]byte(nil), data...)
	}

	c.eviction.MoveToFront(elem)
	e.hits++
	c.stats.Hits++
	return data, true
}

// Put stores value under key, evicting older entries as needed.
func (c *Cache) Put(key string, value []byte) error {
	if c.capacity == 0 {
		return nil
	}

	stored, compressed := c.encode(value)
	size := int64(len(stored))
	if size > c.capacity {
		return ErrItemTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
	for c.size+size > c.capacity && c.eviction.Len() > 0 {
		c.remove(c.eviction.Back())
		c.stats.Evictions++
	}

	e := &entry{
		key:        key,
		data:       stored,
		size:       size,
		compressed: compressed,
		stored:     time.Now(),
	}
	c.items[key] = c.eviction.PushFront(e)
	c.size += size
	if compressed {
		c.stats.Saved += int64(len(value)) - size
	}
	return nil
}

// encode compresses value when that makes it smaller. The returned slice
// never aliases value.
func (c *Cache) encode(value []byte) ([]byte, bool) {
	if len(value) > compressThreshold {
		packed := c.encoder.EncodeAll(value, nil)
		if len(packed) < len(value) {
			return packed, true
		}
	}
	return append([]byte(nil), value...), false
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
}

// Prune removes entries stored longer ago than maxAge and returns how many
// were removed.
func (c *Cache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for elem := c.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).stored.Before(cutoff) {
			c.remove(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = c.size
	s.Items = len(c.items)
	return s
}

// Close releases the compression resources.
func (c *Cache) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}

// remove must be called with c.mu held.
func (c *Cache) remove(elem *list.Element) {
	e := c.eviction.Remove(elem).(*entry)
	delete(c.items, e.key)
	c.size -= e.size
}

// Package cache provides the content-addressed result store: finding lists
// keyed by a sha256 digest of the analyzed content, with per-entry TTL,
// insertion-order eviction under a capacity bound, and a JSON snapshot
// format for persistence across restarts.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/harrison/promptcheck/internal/models"
)

// Hash returns the hex sha256 digest of the UTF-8 bytes of text. Callers are
// responsible for pre-composing text to include link contents when
// composition-sensitivity is required.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

const (
	// DefaultTTL is applied when Set receives a non-positive TTL.
	DefaultTTL = 30 * time.Minute

	// DefaultCapacity bounds the number of live entries.
	DefaultCapacity = 256
)

type entry struct {
	findings  []models.Finding
	createdAt time.Time
	ttl       time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.createdAt.Add(e.ttl))
}

// Cache is a shared, concurrency-safe result store. Entries are never
// mutated after insertion, only replaced or evicted.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	order    []string // insertion order, oldest first
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// New creates a Cache with the given default TTL and capacity ceiling.
// Non-positive arguments select the package defaults.
func New(ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[string]*entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the cached findings for digest. The second return is false
// both when the digest was never set and when the entry expired; expired
// entries are evicted eagerly on read.
func (c *Cache) Get(digest string) ([]models.Finding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[digest]
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		c.remove(digest)
		return nil, false
	}

	out := make([]models.Finding, len(e.findings))
	copy(out, e.findings)
	return out, true
}

// Set stores findings under digest. A non-positive ttl selects the default.
// Before inserting, expired entries are pruned, then the oldest-inserted
// entries are evicted while the cache is at or above capacity.
func (c *Cache) Set(digest string, findings []models.Finding, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()

	// Replacing an existing digest re-inserts it at the back of the order.
	if _, exists := c.entries[digest]; exists {
		c.remove(digest)
	}

	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.remove(c.order[0])
	}

	snapshot := make([]models.Finding, len(findings))
	copy(snapshot, findings)

	c.entries[digest] = &entry{
		findings:  snapshot,
		createdAt: c.now(),
		ttl:       ttl,
	}
	c.order = append(c.order, digest)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.order = nil
}

// Len returns the number of stored entries, including any not yet pruned.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// pruneLocked drops every expired entry. Callers hold c.mu.
func (c *Cache) pruneLocked() {
	now := c.now()
	for digest, e := range c.entries {
		if e.expired(now) {
			c.remove(digest)
		}
	}
}

// remove deletes a digest from both the map and the insertion order.
// Callers hold c.mu.
func (c *Cache) remove(digest string) {
	delete(c.entries, digest)
	for i, d := range c.order {
		if d == digest {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// record is the persisted snapshot form of one entry. TTL is stored in
// nanoseconds so sub-second TTLs survive the round trip.
type record struct {
	Digest    string           `json:"digest"`
	Findings  []models.Finding `json:"findings"`
	CreatedAt time.Time        `json:"created_at"`
	TTLNanos  int64            `json:"ttl_ns"`
}

// Export serializes all non-expired entries in insertion order.
func (c *Cache) Export() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	records := make([]record, 0, len(c.order))
	for _, digest := range c.order {
		e, ok := c.entries[digest]
		if !ok || e.expired(now) {
			continue
		}
		records = append(records, record{
			Digest:    digest,
			Findings:  e.findings,
			CreatedAt: e.createdAt,
			TTLNanos:  int64(e.ttl),
		})
	}

	return json.Marshal(records)
}

// Import merges a snapshot produced by Export. Malformed payloads and
// entries already expired relative to this clock are silently discarded;
// Import never fails. It returns the number of entries imported.
func (c *Cache) Import(data []byte) int {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return 0
	}

	now := c.now()
	imported := 0
	for _, r := range records {
		if r.Digest == "" || r.TTLNanos <= 0 {
			continue
		}
		ttl := time.Duration(r.TTLNanos)
		if now.After(r.CreatedAt.Add(ttl)) {
			continue
		}

		c.mu.Lock()
		if _, exists := c.entries[r.Digest]; exists {
			c.remove(r.Digest)
		}
		for len(c.entries) >= c.capacity && len(c.order) > 0 {
			c.remove(c.order[0])
		}
		c.entries[r.Digest] = &entry{
			findings:  r.Findings,
			createdAt: r.CreatedAt,
			ttl:       ttl,
		}
		c.order = append(c.order, r.Digest)
		c.mu.Unlock()
		imported++
	}

	return imported
}

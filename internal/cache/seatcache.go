// Package cache holds the in-process caches that keep the seat resolution
// hot path away from the database: the sharded seat cache and the
// active-event pointer.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mosaicolive/mosaico/internal/model"
)

// Outcome is the tagged result of a cache lookup. InvalidSeat is distinct
// from Miss: it means the validity registry is non-empty and does not know
// the seat, so the caller must not fall through to the store.
type Outcome int

const (
	OutcomeHit Outcome = iota
	OutcomeMiss
	OutcomeInvalidSeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeInvalidSeat:
		return "invalid_seat"
	}
	return "unknown"
}

// shardCount spreads entries over independent locks so reads at venue load
// do not contend on a single mutex. Must be a power of two.
const shardCount = 64

type entry struct {
	res       model.Resolution
	expiresAt time.Time
	version   int
	cachedAt  time.Time
}

type shard struct {
	mu    sync.RWMutex
	items map[string]entry
}

// registry is the allow-list of seat identities for the warmed event.
// An empty registry disables gating entirely (permissive mode).
type registry map[string]struct{}

// SeatCache maps (seat, event) to a resolved color record with TTL expiry
// and a version stamp. Entries whose TTL or version no longer match are
// evicted lazily on read. The validity registry is published atomically so
// readers never observe a partially rebuilt allow-list.
type SeatCache struct {
	shards   [shardCount]*shard
	hotTTL   time.Duration
	validity atomic.Pointer[registry]
	regMu    sync.Mutex // serializes registry writers; readers go through the pointer
}

// NewSeatCache builds an empty cache. hotTTL is the default entry lifetime
// used by Set; pre-loading paths pass their own duration via SetWithTTL.
func NewSeatCache(hotTTL time.Duration) *SeatCache {
	c := &SeatCache{hotTTL: hotTTL}
	for i := range c.shards {
		c.shards[i] = &shard{items: make(map[string]entry)}
	}
	empty := make(registry)
	c.validity.Store(&empty)
	return c
}

func cacheKey(seatID, eventID string) string {
	return "seat:" + seatID + ":event:" + eventID
}

// fnv32a is the 32-bit FNV-1a hash, used to pick a shard without allocating.
func fnv32a(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func (c *SeatCache) shardFor(key string) *shard {
	return c.shards[fnv32a(key)&(shardCount-1)]
}

// Get looks up the resolution for a seat under an event context. The
// validity registry is consulted first: a non-empty registry that does not
// contain the seat short-circuits to OutcomeInvalidSeat without touching
// the entry maps. Expired or version-mismatched entries are evicted and
// reported as OutcomeMiss.
func (c *SeatCache) Get(seatID, eventID string, version int) (model.Resolution, Outcome) {
	reg := *c.validity.Load()
	if len(reg) > 0 {
		if _, ok := reg[seatID]; !ok {
			return model.Resolution{}, OutcomeInvalidSeat
		}
	}

	key := cacheKey(seatID, eventID)
	sh := c.shardFor(key)

	sh.mu.RLock()
	e, ok := sh.items[key]
	sh.mu.RUnlock()
	if !ok {
		return model.Resolution{}, OutcomeMiss
	}

	if time.Now().After(e.expiresAt) || e.version != version {
		// Stale entries are removed, not just skipped, so the map does not
		// accumulate dead keys between version bumps.
		sh.mu.Lock()
		if cur, ok := sh.items[key]; ok && cur.cachedAt.Equal(e.cachedAt) {
			delete(sh.items, key)
		}
		sh.mu.Unlock()
		return model.Resolution{}, OutcomeMiss
	}

	return e.res, OutcomeHit
}

// Set stores a resolution under the default hot TTL.
func (c *SeatCache) Set(seatID, eventID string, res model.Resolution, version int) {
	c.SetWithTTL(seatID, eventID, res, version, c.hotTTL)
}

// SetWithTTL stores a resolution with an explicit lifetime. Live reads use
// the short hot TTL, warmup uses a long one; same mechanism either way.
// When gating is active the seat is also added to the validity registry so
// an individually painted seat is retroactively valid.
func (c *SeatCache) SetWithTTL(seatID, eventID string, res model.Resolution, version int, ttl time.Duration) {
	now := time.Now()
	key := cacheKey(seatID, eventID)
	sh := c.shardFor(key)

	sh.mu.Lock()
	sh.items[key] = entry{res: res, expiresAt: now.Add(ttl), version: version, cachedAt: now}
	sh.mu.Unlock()

	c.admitSeat(seatID)
}

// admitSeat adds a seat to the registry via copy-on-write. It only applies
// while the registry is non-empty: an empty registry means gating is off,
// and a single write must not silently flip the cache into strict mode.
func (c *SeatCache) admitSeat(seatID string) {
	c.regMu.Lock()
	defer c.regMu.Unlock()

	cur := *c.validity.Load()
	if len(cur) == 0 {
		return
	}
	if _, ok := cur[seatID]; ok {
		return
	}
	next := make(registry, len(cur)+1)
	for id := range cur {
		next[id] = struct{}{}
	}
	next[seatID] = struct{}{}
	c.validity.Store(&next)
}

// ReplaceRegistry swaps the validity registry for exactly the given seat
// ids in one atomic publish. Passing an empty slice turns gating off.
func (c *SeatCache) ReplaceRegistry(seatIDs []string) {
	next := make(registry, len(seatIDs))
	for _, id := range seatIDs {
		next[id] = struct{}{}
	}
	c.regMu.Lock()
	c.validity.Store(&next)
	c.regMu.Unlock()
}

// RegistryLen reports how many seats the registry currently allows.
// Zero means gating is disabled.
func (c *SeatCache) RegistryLen() int {
	return len(*c.validity.Load())
}

// RegistryHas reports whether a seat is in the current registry.
func (c *SeatCache) RegistryHas(seatID string) bool {
	_, ok := (*c.validity.Load())[seatID]
	return ok
}

// Invalidate removes a single entry. Registry membership is untouched; the
// seat stays valid and the next read repopulates or degrades per policy.
func (c *SeatCache) Invalidate(seatID, eventID string) {
	key := cacheKey(seatID, eventID)
	sh := c.shardFor(key)
	sh.mu.Lock()
	delete(sh.items, key)
	sh.mu.Unlock()
}

// Clear drops every entry in every shard. The validity registry survives;
// only ReplaceRegistry rebuilds it.
func (c *SeatCache) Clear() {
	for _, sh := range c.shards {
		sh.mu.Lock()
		sh.items = make(map[string]entry)
		sh.mu.Unlock()
	}
}

// Size counts live and not-yet-evicted entries across all shards.
func (c *SeatCache) Size() int {
	n := 0
	for _, sh := range c.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}

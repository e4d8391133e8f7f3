package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicolive/mosaico/internal/cache"
	"github.com/mosaicolive/mosaico/internal/config"
	"github.com/mosaicolive/mosaico/internal/model"
	"github.com/mosaicolive/mosaico/internal/repository"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		HotTTL:         time.Minute,
		WarmupTTL:      3 * time.Hour,
		ActiveEventTTL: time.Minute,
		ResolutionTTL:  3 * time.Hour,
		StoreTimeout:   500 * time.Millisecond,
		Version:        1,
	}
}

func newSeatService(store *fakeStore, policy Policy) (*SeatService, *cache.SeatCache) {
	c := cache.NewSeatCache(time.Minute)
	active := cache.NewActiveEventCache(store, time.Minute)
	return NewSeatService(c, active, store, store, testCacheConfig(), policy), c
}

func TestResolveNoActiveEventDegrades(t *testing.T) {
	svc, _ := newSeatService(newFakeStore(), PolicyStrict)

	res := svc.Resolve(context.Background(), "A-12-34")

	assert.Equal(t, WaitingEventLabel, res.Event)
	assert.Equal(t, "#000000", res.Color)
	assert.Equal(t, "#000000", res.FallbackColor)
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, "A-12-34", res.Seat)
}

func TestResolveStrictMissDegradesWithoutStoreAccess(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.addAssignment("ev-1", "A-12-34", "#FF0000")
	svc, _ := newSeatService(store, PolicyStrict)

	res := svc.Resolve(context.Background(), "A-12-34")

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, 0, store.findAssignmentCalls, "strict policy must not query the store on a miss")
}

func TestResolveHitAfterWarmup(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.addAssignment("ev-1", "A-12-34", "#FF0000")
	svc, _ := newSeatService(store, PolicyStrict)

	_, err := svc.Warmup(context.Background(), "ev-1")
	require.NoError(t, err)

	res := svc.Resolve(context.Background(), "A-12-34")
	assert.Equal(t, model.SourceCache, res.Source)
	assert.Equal(t, "#FF0000", res.Color)
	assert.Equal(t, "Final", res.Event)
	assert.Equal(t, "#112233", res.FallbackColor)
}

func TestResolveInvalidSeatShortCircuits(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.addAssignment("ev-1", "A-12-34", "#FF0000")
	// Permissive policy on purpose: even it must not reach the store for a
	// seat the registry rejects.
	svc, _ := newSeatService(store, PolicyPermissive)

	_, err := svc.Warmup(context.Background(), "ev-1")
	require.NoError(t, err)
	store.findAssignmentCalls = 0

	res := svc.Resolve(context.Background(), "Z-99-99")

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, WaitingEventLabel, res.Event)
	assert.Equal(t, 0, store.findAssignmentCalls)
}

func TestResolvePermissiveFetchesAndCaches(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.addAssignment("ev-1", "A-12-34", "#FF0000")
	svc, _ := newSeatService(store, PolicyPermissive)

	res := svc.Resolve(context.Background(), "A-12-34")
	assert.Equal(t, model.SourceStore, res.Source)
	assert.Equal(t, "#FF0000", res.Color)

	// Second read is served from the cache.
	res = svc.Resolve(context.Background(), "A-12-34")
	assert.Equal(t, model.SourceCache, res.Source)
	assert.Equal(t, 1, store.findAssignmentCalls)
}

func TestResolvePermissiveUnassignedSeatGetsEventFallback(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	svc, _ := newSeatService(store, PolicyPermissive)

	res := svc.Resolve(context.Background(), "A-12-34")

	assert.Equal(t, model.SourceStore, res.Source)
	assert.Equal(t, "#112233", res.Color, "unassigned seat shows the event fallback, not hardcoded black")
	assert.Equal(t, "#112233", res.FallbackColor)

	// The answer is cached like any other.
	res = svc.Resolve(context.Background(), "A-12-34")
	assert.Equal(t, model.SourceCache, res.Source)
}

func TestResolveStalledActiveEventQueryDegradesWithinBound(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.findActiveDelay = 3 * time.Second
	svc, _ := newSeatService(store, PolicyStrict)

	start := time.Now()
	res := svc.Resolve(context.Background(), "A-12-34")
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "a stalled active-event query must be cut off at the store timeout")
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, WaitingEventLabel, res.Event)
}

func TestResolvePermissiveStoreFailureDegrades(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.findAssignmentErr = errors.New("connection refused")
	svc, _ := newSeatService(store, PolicyPermissive)

	res := svc.Resolve(context.Background(), "A-12-34")

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, WaitingEventLabel, res.Event)
}

func TestWarmupPopulatesCacheAndRegistry(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	seats := []string{"A-1-1", "A-1-2", "A-1-3", "B-2-1"}
	for _, s := range seats {
		store.addAssignment("ev-1", s, "#00FF00")
	}
	svc, c := newSeatService(store, PolicyStrict)

	stats, err := svc.Warmup(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, len(seats), stats.Total)
	assert.Equal(t, len(seats), stats.Cached)

	// Every warmed seat hits immediately; the registry is exactly the
	// warmed set.
	for _, s := range seats {
		res := svc.Resolve(context.Background(), s)
		assert.Equal(t, model.SourceCache, res.Source, s)
	}
	assert.Equal(t, len(seats), c.RegistryLen())
	assert.False(t, c.RegistryHas("Z-99-99"))
}

func TestWarmupMissingEventFailsLoudly(t *testing.T) {
	svc, _ := newSeatService(newFakeStore(), PolicyStrict)

	_, err := svc.Warmup(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestWarmupEmptyRosterFailsAndLeavesStateUntouched(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.events["ev-empty"] = model.Event{ID: "ev-empty", Name: "Empty"}
	svc, c := newSeatService(store, PolicyStrict)

	// Pre-existing state that must survive the failed warmup.
	c.ReplaceRegistry([]string{"A-1-1"})
	c.Set("A-1-1", "ev-1", model.Resolution{Seat: "A-1-1", Color: "#FF0000"}, 1)

	_, err := svc.Warmup(context.Background(), "ev-empty")
	assert.ErrorIs(t, err, ErrEmptyRoster)

	assert.Equal(t, 1, c.Size())
	assert.Equal(t, 1, c.RegistryLen())
	got, outcome := c.Get("A-1-1", "ev-1", 1)
	require.Equal(t, cache.OutcomeHit, outcome)
	assert.Equal(t, "#FF0000", got.Color)
}

func TestInvalidateSeatForcesMiss(t *testing.T) {
	store := newFakeStore()
	store.addActiveEvent("ev-1", "Final", "#112233")
	store.addAssignment("ev-1", "A-12-34", "#FF0000")
	svc, _ := newSeatService(store, PolicyStrict)

	_, err := svc.Warmup(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Equal(t, model.SourceCache, svc.Resolve(context.Background(), "A-12-34").Source)

	svc.InvalidateSeat(context.Background(), "A-12-34")

	res := svc.Resolve(context.Background(), "A-12-34")
	assert.Equal(t, model.SourceFallback, res.Source, "entry gone well before its TTL")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mosaicolive/mosaico/internal/cache"
	"github.com/mosaicolive/mosaico/internal/config"
	"github.com/mosaicolive/mosaico/internal/model"
	"github.com/mosaicolive/mosaico/internal/monitoring"
	"github.com/mosaicolive/mosaico/internal/repository"
)

// Policy selects how a cache miss is handled on the read path.
type Policy string

const (
	// PolicyStrict degrades misses to a waiting record without touching
	// the store. This is the venue-day policy: the roster is warmed before
	// doors open and unknown seats must not cost a store round-trip.
	PolicyStrict Policy = "strict"
	// PolicyPermissive falls through to the store on a miss and caches the
	// answer. Pre-warmup operation only.
	PolicyPermissive Policy = "permissive"
)

// ParsePolicy maps a config string onto a Policy, defaulting to strict.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyPermissive {
		return PolicyPermissive
	}
	return PolicyStrict
}

// WaitingEventLabel is shown while a seat has no resolvable color yet.
const WaitingEventLabel = "Aguardando Início..."

const blackColor = "#000000"

// WarmupStats summarizes one warmup run.
type WarmupStats struct {
	Total  int   `json:"total"`
	Cached int   `json:"cached"`
	TimeMs int64 `json:"timeMs"`
}

// ErrEmptyRoster is returned when warmup finds an event with zero
// assignments. An empty roster is an operator mistake, never a valid
// steady state, so warmup aborts without touching cache state.
var ErrEmptyRoster = errors.New("event has no seat assignments")

// SeatService resolves seat colors at read time and manages warmup and
// invalidation of the seat cache.
type SeatService struct {
	cache       *cache.SeatCache
	active      *cache.ActiveEventCache
	events      EventStore
	assignments AssignmentStore
	cfg         config.CacheConfig
	policy      Policy
}

// NewSeatService wires the resolution core. All collaborators are handles
// constructed at process start; nothing here is a package-level singleton.
func NewSeatService(c *cache.SeatCache, active *cache.ActiveEventCache, events EventStore, assignments AssignmentStore, cfg config.CacheConfig, policy Policy) *SeatService {
	return &SeatService{cache: c, active: active, events: events, assignments: assignments, cfg: cfg, policy: policy}
}

// Resolve returns the color record for a seat. It never fails: any miss,
// gating rejection or store problem degrades into a renderable waiting
// record with provenance "fallback".
func (s *SeatService) Resolve(ctx context.Context, seatID string) model.Resolution {
	start := time.Now()
	res := s.resolve(ctx, seatID)
	monitoring.ObserveResolution(string(res.Source), time.Since(start))
	return res
}

func (s *SeatService) resolve(ctx context.Context, seatID string) model.Resolution {
	ev, err := s.activeEvent(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNoActiveEvent) {
			log.Printf("seat-service: active event lookup failed: %v", err)
		}
		return s.waitingResolution(seatID)
	}

	res, outcome := s.cache.Get(seatID, ev.ID, s.cfg.Version)
	monitoring.ObserveLookup(outcome.String())
	switch outcome {
	case cache.OutcomeHit:
		res.Source = model.SourceCache
		return res
	case cache.OutcomeInvalidSeat:
		// The registry says this seat cannot exist in the warmed event.
		// Known-nonexistent seats never reach the store.
		return s.waitingResolution(seatID)
	}

	if s.policy == PolicyStrict {
		return s.waitingResolution(seatID)
	}
	return s.resolveFromStore(ctx, seatID, ev)
}

// activeEvent looks up the active event under the store timeout. The
// pointer cache holds a shared lock while it refreshes, so an unbounded
// store query there would stall every reader needing a refresh, not just
// this one.
func (s *SeatService) activeEvent(ctx context.Context) (*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.active.Get(ctx)
}

// resolveFromStore is the permissive miss path: ask the store for the
// assignment, fall back to the event's own fallback color when none
// exists, cache whatever was decided and tag it with provenance "store".
func (s *SeatService) resolveFromStore(ctx context.Context, seatID string, ev *model.Event) model.Resolution {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	color := ev.FallbackColor
	a, err := s.assignments.FindAssignment(ctx, seatID, ev.ID)
	switch {
	case err == nil:
		color = a.Color
	case errors.Is(err, repository.ErrAssignmentNotFound):
		// Unassigned seat: the event fallback color is the answer, and it
		// is cached like any other so repeat reads stay off the store.
	default:
		// A stalled or failing store must not surface to the device.
		log.Printf("seat-service: assignment lookup failed for %s: %v", seatID, err)
		return s.waitingResolution(seatID)
	}

	res := model.Resolution{
		Event:         ev.Name,
		Seat:          seatID,
		Color:         color,
		FallbackColor: ev.FallbackColor,
		ExpiresAt:     time.Now().Add(s.cfg.ResolutionTTL),
		Brightness:    model.FullBrightness,
		Version:       s.cfg.Version,
		Source:        model.SourceStore,
	}
	s.cache.Set(seatID, ev.ID, res, s.cfg.Version)
	monitoring.SetCacheEntries(s.cache.Size())
	return res
}

// waitingResolution is the degraded record: placeholder label, black
// color, short expiry so devices re-ask soon after the show actually
// configures their seat.
func (s *SeatService) waitingResolution(seatID string) model.Resolution {
	return model.Resolution{
		Event:         WaitingEventLabel,
		Seat:          seatID,
		Color:         blackColor,
		FallbackColor: blackColor,
		ExpiresAt:     time.Now().Add(s.cfg.HotTTL),
		Brightness:    model.FullBrightness,
		Version:       s.cfg.Version,
		Source:        model.SourceFallback,
	}
}

// Warmup bulk-loads every assignment of the named event into the cache
// under the long warmup TTL and atomically replaces the validity registry
// with exactly the warmed seat set. It fails loudly, making no changes,
// when the event does not exist or has zero assignments.
func (s *SeatService) Warmup(ctx context.Context, eventID string) (WarmupStats, error) {
	start := time.Now()

	ev, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return WarmupStats{}, fmt.Errorf("warmup: %w", err)
	}
	list, err := s.assignments.ListAssignmentsByEvent(ctx, eventID)
	if err != nil {
		return WarmupStats{}, fmt.Errorf("warmup: list assignments: %w", err)
	}
	if len(list) == 0 {
		return WarmupStats{}, fmt.Errorf("warmup event %s: %w", eventID, ErrEmptyRoster)
	}

	expiresAt := time.Now().Add(s.cfg.ResolutionTTL)
	seatIDs := make([]string, 0, len(list))
	for _, a := range list {
		res := model.Resolution{
			Event:         ev.Name,
			Seat:          a.SeatID,
			Color:         a.Color,
			FallbackColor: ev.FallbackColor,
			ExpiresAt:     expiresAt,
			Brightness:    model.FullBrightness,
			Version:       s.cfg.Version,
		}
		s.cache.SetWithTTL(a.SeatID, ev.ID, res, s.cfg.Version, s.cfg.WarmupTTL)
		seatIDs = append(seatIDs, a.SeatID)
	}
	// Single atomic publish: readers see the old registry or the complete
	// new one, never a partial union.
	s.cache.ReplaceRegistry(seatIDs)

	monitoring.SetCacheEntries(s.cache.Size())
	monitoring.SetWarmedSeats(len(seatIDs))

	stats := WarmupStats{
		Total:  len(list),
		Cached: len(seatIDs),
		TimeMs: time.Since(start).Milliseconds(),
	}
	log.Printf("seat-service: warmed %d seats for event %s in %dms", stats.Cached, eventID, stats.TimeMs)
	return stats, nil
}

// InvalidateSeat evicts one seat's cache entry under the active event. The
// next read repopulates or degrades per policy. No-op when no event is
// active, because then nothing can be cached under a live context anyway.
func (s *SeatService) InvalidateSeat(ctx context.Context, seatID string) {
	ev, err := s.activeEvent(ctx)
	if err != nil {
		return
	}
	s.cache.Invalidate(seatID, ev.ID)
	log.Printf("seat-service: invalidated cache for seat %s", seatID)
}

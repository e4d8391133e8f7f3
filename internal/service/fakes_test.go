package service

import (
	"context"
	"sync"
	"time"

	"github.com/mosaicolive/mosaico/internal/model"
	"github.com/mosaicolive/mosaico/internal/repository"
)

// fakeStore is an in-memory event store implementing EventStore, SeatStore
// and AssignmentStore. Counters and injectable errors let tests assert how
// often the hot path actually reaches the store.
type fakeStore struct {
	mu          sync.Mutex
	events      map[string]model.Event
	activeID    string
	seats       map[string]model.Seat
	assignments map[string]map[string]model.Assignment // eventID -> seatID

	findAssignmentErr   error
	findAssignmentCalls int
	findActiveDelay     time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:      map[string]model.Event{},
		seats:       map[string]model.Seat{},
		assignments: map[string]map[string]model.Assignment{},
	}
}

func (f *fakeStore) addActiveEvent(id, name, fallback string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[id] = model.Event{ID: id, Name: name, FallbackColor: fallback, IsActive: true}
	f.activeID = id
}

func (f *fakeStore) addAssignment(eventID, seatID, color string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignments[eventID] == nil {
		f.assignments[eventID] = map[string]model.Assignment{}
	}
	f.assignments[eventID][seatID] = model.Assignment{SeatID: seatID, EventID: eventID, Color: color}
}

func (f *fakeStore) FindActiveEvent(ctx context.Context) (*model.Event, error) {
	f.mu.Lock()
	delay := f.findActiveDelay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeID == "" {
		return nil, repository.ErrNoActiveEvent
	}
	ev := f.events[f.activeID]
	return &ev, nil
}

func (f *fakeStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return &ev, nil
}

func (f *fakeStore) CreateActiveEvent(ctx context.Context, ev *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, e := range f.events {
		e.IsActive = false
		f.events[id] = e
	}
	ev.IsActive = true
	f.events[ev.ID] = *ev
	f.activeID = ev.ID
	return nil
}

func (f *fakeStore) UpsertSeat(ctx context.Context, s *model.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seats[s.ID] = *s
	return nil
}

func (f *fakeStore) FindAssignment(ctx context.Context, seatID, eventID string) (*model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findAssignmentCalls++
	if f.findAssignmentErr != nil {
		return nil, f.findAssignmentErr
	}
	a, ok := f.assignments[eventID][seatID]
	if !ok {
		return nil, repository.ErrAssignmentNotFound
	}
	return &a, nil
}

func (f *fakeStore) UpsertAssignment(ctx context.Context, a *model.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignments[a.EventID] == nil {
		f.assignments[a.EventID] = map[string]model.Assignment{}
	}
	f.assignments[a.EventID][a.SeatID] = *a
	return nil
}

func (f *fakeStore) ListAssignmentsByEvent(ctx context.Context, eventID string) ([]model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Assignment
	for _, a := range f.assignments[eventID] {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) DeleteAssignmentsByEvent(ctx context.Context, eventID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.assignments[eventID]))
	delete(f.assignments, eventID)
	return n, nil
}

// Package service orchestrates the seat resolution core: cache-then-store
// reads, warmup, invalidation and the admin mutation path. The HTTP layer
// depends only on this package.
package service

import (
	"context"

	"github.com/mosaicolive/mosaico/internal/model"
)

// EventStore is the event slice of the durable store consumed by the core.
// Implemented by repository.EventRepo; tests substitute an in-memory fake.
type EventStore interface {
	FindActiveEvent(ctx context.Context) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	CreateActiveEvent(ctx context.Context, ev *model.Event) error
}

// SeatStore persists seat identities. Implemented by repository.SeatRepo.
type SeatStore interface {
	UpsertSeat(ctx context.Context, s *model.Seat) error
}

// AssignmentStore persists seat-color assignments. Implemented by
// repository.AssignmentRepo.
type AssignmentStore interface {
	FindAssignment(ctx context.Context, seatID, eventID string) (*model.Assignment, error)
	UpsertAssignment(ctx context.Context, a *model.Assignment) error
	ListAssignmentsByEvent(ctx context.Context, eventID string) ([]model.Assignment, error)
	DeleteAssignmentsByEvent(ctx context.Context, eventID string) (int64, error)
}

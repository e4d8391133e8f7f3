package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mosaicolive/mosaico/internal/model"
)

// EventRepo provides access to the events table.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// FindActiveEvent returns the single active event, or ErrNoActiveEvent.
func (r *EventRepo) FindActiveEvent(ctx context.Context) (*model.Event, error) {
	const q = `SELECT id, name, fallback_color, is_active, created_at, updated_at
	           FROM events WHERE is_active = 1 LIMIT 1`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q).
		Scan(&ev.ID, &ev.Name, &ev.FallbackColor, &ev.IsActive, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveEvent
		}
		return nil, err
	}
	return &ev, nil
}

// GetEvent retrieves an event by id, or ErrEventNotFound.
func (r *EventRepo) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	const q = `SELECT id, name, fallback_color, is_active, created_at, updated_at
	           FROM events WHERE id = ?`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&ev.ID, &ev.Name, &ev.FallbackColor, &ev.IsActive, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// CreateActiveEvent deactivates every existing event and inserts the given
// one as active, in a single transaction so the one-active-event invariant
// holds even under concurrent admin actions.
func (r *EventRepo) CreateActiveEvent(ctx context.Context, ev *model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE events SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("deactivate events: %w", err)
	}
	const ins = `INSERT INTO events (id, name, fallback_color, is_active) VALUES (?, ?, ?, 1)`
	if _, err := tx.ExecContext(ctx, ins, ev.ID, ev.Name, ev.FallbackColor); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	ev.IsActive = true
	return nil
}

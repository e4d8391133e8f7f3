package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mosaicolive/mosaico/internal/model"
)

// AssignmentRepo provides access to seat-color assignments. At most one
// assignment exists per (seat, event) pair, enforced by the primary key
// and upsert semantics.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo constructs an AssignmentRepo with the given DB handle.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// FindAssignment returns the color assignment for a seat under an event,
// or ErrAssignmentNotFound.
func (r *AssignmentRepo) FindAssignment(ctx context.Context, seatID, eventID string) (*model.Assignment, error) {
	const q = `SELECT seat_id, event_id, color, created_at, updated_at
	           FROM seat_assignments WHERE seat_id = ? AND event_id = ?`
	var a model.Assignment
	err := r.db.QueryRowContext(ctx, q, seatID, eventID).
		Scan(&a.SeatID, &a.EventID, &a.Color, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpsertAssignment inserts or overwrites the color for a (seat, event) pair.
func (r *AssignmentRepo) UpsertAssignment(ctx context.Context, a *model.Assignment) error {
	const q = `INSERT INTO seat_assignments (seat_id, event_id, color)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE color = VALUES(color), updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, a.SeatID, a.EventID, a.Color)
	return err
}

// ListAssignmentsByEvent returns every assignment of one event, ordered by
// seat id for stable admin output. Used by warmup and the admin map.
func (r *AssignmentRepo) ListAssignmentsByEvent(ctx context.Context, eventID string) ([]model.Assignment, error) {
	const q = `SELECT seat_id, event_id, color, created_at, updated_at
	           FROM seat_assignments WHERE event_id = ? ORDER BY seat_id`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.SeatID, &a.EventID, &a.Color, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAssignmentsByEvent bulk-deletes all assignments of one event and
// reports how many rows went away.
func (r *AssignmentRepo) DeleteAssignmentsByEvent(ctx context.Context, eventID string) (int64, error) {
	const q = `DELETE FROM seat_assignments WHERE event_id = ?`
	res, err := r.db.ExecContext(ctx, q, eventID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/mosaicolive/mosaico/internal/model"
)

// SeatRepo provides access to the seats table. Seats are written by the
// admin path only; the resolution hot path never needs them because the
// seat identity itself is the key.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// UpsertSeat inserts a seat or leaves an existing row untouched apart from
// its updated_at stamp. Positional fields come from parsing the identity
// and never change afterwards.
func (r *SeatRepo) UpsertSeat(ctx context.Context, s *model.Seat) error {
	const q = `INSERT INTO seats (id, sector, row_label, seat_number)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.Sector, s.Row, s.Number)
	return err
}

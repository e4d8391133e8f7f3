package model

import "time"

// Assignment maps a seat to the color it displays during one event.
// There is at most one assignment per (seat, event) pair; writes upsert.
type Assignment struct {
	SeatID    string    `json:"seatId"`    // seat_assignments.seat_id
	EventID   string    `json:"eventId"`   // seat_assignments.event_id
	Color     string    `json:"color"`     // seat_assignments.color
	CreatedAt time.Time `json:"createdAt"` // seat_assignments.created_at
	UpdatedAt time.Time `json:"updatedAt"` // seat_assignments.updated_at
}

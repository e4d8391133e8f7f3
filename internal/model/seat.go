package model

import (
	"strings"
	"time"
)

// Sentinel values assigned to seat segments that cannot be parsed out of a
// seat identity. A malformed id is never rejected; it just carries defaults.
const (
	DefaultSector = "X"
	DefaultRow    = "0"
	DefaultNumber = "0"
)

// Seat is a physical seat in the venue. The identity follows the printed
// sticker format "SECTOR-ROW-NUMBER", e.g. "A-12-34". Sector, row and
// number are derived from the identity for reporting purposes only; the
// identity string is the key everywhere else.
type Seat struct {
	ID        string    `json:"id"`        // seats.id, e.g. "A-12-34"
	Sector    string    `json:"sector"`    // seats.sector
	Row       string    `json:"row"`       // seats.row_label
	Number    string    `json:"number"`    // seats.seat_number
	CreatedAt time.Time `json:"createdAt"` // seats.created_at
	UpdatedAt time.Time `json:"updatedAt"` // seats.updated_at
}

// ParseSeatID splits a seat identity into sector, row and number.
// Missing segments fall back to sentinel values so that any string a
// device sends can be stored and resolved.
func ParseSeatID(id string) (sector, row, number string) {
	parts := strings.Split(id, "-")
	sector, row, number = DefaultSector, DefaultRow, DefaultNumber
	if len(parts) > 0 && parts[0] != "" {
		sector = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		row = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		number = parts[2]
	}
	return sector, row, number
}

// NewSeat builds a Seat from its identity, deriving the positional fields.
func NewSeat(id string) *Seat {
	sector, row, number := ParseSeatID(id)
	return &Seat{ID: id, Sector: sector, Row: row, Number: number}
}

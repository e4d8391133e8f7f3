package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeatID(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		sector string
		row    string
		number string
	}{
		{"full id", "A-12-34", "A", "12", "34"},
		{"sector and row only", "B-7", "B", "7", "0"},
		{"sector only", "C", "C", "0", "0"},
		{"empty", "", "X", "0", "0"},
		{"extra segments ignored", "A-1-2-3", "A", "1", "2"},
		{"empty middle segment", "A--5", "A", "0", "5"},
		{"lowercase preserved", "a-1-2", "a", "1", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sector, row, number := ParseSeatID(tt.id)
			assert.Equal(t, tt.sector, sector)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestNewSeat(t *testing.T) {
	s := NewSeat("A-12-34")
	assert.Equal(t, "A-12-34", s.ID)
	assert.Equal(t, "A", s.Sector)
	assert.Equal(t, "12", s.Row)
	assert.Equal(t, "34", s.Number)
}

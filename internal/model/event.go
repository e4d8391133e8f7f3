package model

import "time"

// DefaultFallbackColor is used whenever an event is created without an
// explicit fallback color. Black keeps an unconfigured crowd dark instead
// of flashing an arbitrary color.
const DefaultFallbackColor = "#000000"

// Event represents one coordinated light show. At most one event is
// active at any time; activating an event deactivates all others.
type Event struct {
	ID            string    `json:"id"`            // events.id (UUID)
	Name          string    `json:"name"`          // events.name
	FallbackColor string    `json:"fallbackColor"` // events.fallback_color
	IsActive      bool      `json:"isActive"`      // events.is_active
	CreatedAt     time.Time `json:"createdAt"`     // events.created_at
	UpdatedAt     time.Time `json:"updatedAt"`     // events.updated_at
}

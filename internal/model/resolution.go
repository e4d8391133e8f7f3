package model

import "time"

// Source tags where a Resolution came from. Devices do not branch on it,
// but it is invaluable when debugging latency or staleness in production.
type Source string

const (
	SourceCache    Source = "cache"
	SourceStore    Source = "store"
	SourceFallback Source = "fallback"
)

// FullBrightness is the brightness every resolution ships with; the crowd
// display only works if every screen is at maximum.
const FullBrightness = 100

// Resolution is the record a device renders: the color for one seat during
// the active event, plus the fallback color and expiry the device needs to
// degrade on its own when the network goes away.
type Resolution struct {
	Event         string    `json:"event"`
	Seat          string    `json:"seat"`
	Color         string    `json:"color"`
	FallbackColor string    `json:"fallbackColor"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Brightness    int       `json:"brightness"`
	Version       int       `json:"version"`
	Source        Source    `json:"source"`
}

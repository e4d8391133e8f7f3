// Package pixelclient is the device-side resolution cascade: it turns a
// possibly-failing network fetch into a color the screen can always
// render. Four strictly ordered tiers: live fetch, valid local record,
// expired local record demoted to its fallback color, hardcoded black.
package pixelclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// OfflineEventLabel marks the last-resort resolution when neither the
// network nor the local record can help.
const OfflineEventLabel = "Modo Offline"

const (
	safetyColor    = "#000000"
	fullBrightness = 100
	defaultTimeout = 2 * time.Second
)

// PixelConfig is what the screen renders: a color, the event label and the
// brightness to force.
type PixelConfig struct {
	Event         string    `json:"event"`
	Color         string    `json:"color"`
	FallbackColor string    `json:"fallbackColor"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Brightness    int       `json:"brightness"`
}

// Config configures a Client. BaseURL is required; everything else has
// working defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // per-fetch bound, default 2s
	Storage    Storage       // default: file storage under the working dir
	HTTPClient *http.Client
}

// Client evaluates the cascade. One Resolve call per seat-view session;
// no concurrent fetches.
type Client struct {
	baseURL string
	timeout time.Duration
	storage Storage
	http    *http.Client
}

// New builds a Client from the config.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	storage := cfg.Storage
	if storage == nil {
		storage = NewFileStorage("mosaico_seat.json")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: cfg.BaseURL, timeout: timeout, storage: storage, http: hc}
}

// Resolve returns a renderable config for the seat. It never fails; every
// failure mode lands on a lower cascade tier. The context cancels the
// network fetch on view teardown.
func (c *Client) Resolve(ctx context.Context, seatID string) PixelConfig {
	// L1: live fetch. All failure causes collapse into one branch; the
	// renderer does not care why the network let it down.
	cfg, err := c.fetch(ctx, seatID)
	if err == nil {
		c.persist(seatID, cfg)
		return cfg
	}
	log.Printf("pixelclient: fetch failed for %s: %v", seatID, err)

	rec, loadErr := c.storage.Load()
	if loadErr == nil && rec.SeatID == seatID {
		// L2: unexpired record for this very seat, use its live color.
		if time.Now().Before(rec.ExpiresAt) {
			return configFromRecord(rec, rec.Color)
		}
		// L3: expired record. Its live color may be long wrong, but its
		// embedded fallback color was chosen to be safe forever.
		if rec.FallbackColor != "" {
			return configFromRecord(rec, rec.FallbackColor)
		}
	}

	// L4: nothing usable. The show must go on.
	return PixelConfig{
		Event:      OfflineEventLabel,
		Color:      safetyColor,
		Brightness: fullBrightness,
	}
}

func (c *Client) fetch(ctx context.Context, seatID string) (PixelConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/seat/"+seatID, nil)
	if err != nil {
		return PixelConfig{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return PixelConfig{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PixelConfig{}, fmt.Errorf("api status %d", resp.StatusCode)
	}

	var body struct {
		Event         string    `json:"event"`
		Color         string    `json:"color"`
		FallbackColor string    `json:"fallbackColor"`
		ExpiresAt     time.Time `json:"expiresAt"`
		Brightness    int       `json:"brightness"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return PixelConfig{}, fmt.Errorf("decode: %w", err)
	}

	cfg := PixelConfig{
		Event:         body.Event,
		Color:         body.Color,
		FallbackColor: body.FallbackColor,
		ExpiresAt:     body.ExpiresAt,
		Brightness:    body.Brightness,
	}
	if cfg.Color == "" {
		cfg.Color = safetyColor
	}
	if cfg.FallbackColor == "" {
		cfg.FallbackColor = safetyColor
	}
	if cfg.Brightness == 0 {
		cfg.Brightness = fullBrightness
	}
	return cfg, nil
}

func (c *Client) persist(seatID string, cfg PixelConfig) {
	rec := Record{
		SeatID:        seatID,
		Event:         cfg.Event,
		Color:         cfg.Color,
		FallbackColor: cfg.FallbackColor,
		ExpiresAt:     cfg.ExpiresAt,
		SavedAt:       time.Now(),
	}
	if err := c.storage.Save(rec); err != nil {
		// A failed save only costs the next offline session its cache.
		log.Printf("pixelclient: persist failed: %v", err)
	}
}

func configFromRecord(rec Record, color string) PixelConfig {
	return PixelConfig{
		Event:         rec.Event,
		Color:         color,
		FallbackColor: rec.FallbackColor,
		ExpiresAt:     rec.ExpiresAt,
		Brightness:    fullBrightness,
	}
}

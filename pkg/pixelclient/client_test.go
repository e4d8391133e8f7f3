package pixelclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage keeps the record in memory, optionally failing saves.
type memStorage struct {
	rec     *Record
	saveErr error
}

func (m *memStorage) Save(r Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rec = &r
	return nil
}

func (m *memStorage) Load() (Record, error) {
	if m.rec == nil {
		return Record{}, ErrNoRecord
	}
	return *m.rec, nil
}

func newTestClient(baseURL string, st Storage) *Client {
	return New(Config{BaseURL: baseURL, Storage: st, Timeout: time.Second})
}

func TestResolveLiveFetchWinsAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seat/A-12-34", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"event":"Final","color":"#00FF00","fallbackColor":"#000000","expiresAt":"2030-01-01T00:00:00Z","brightness":100}`))
	}))
	defer srv.Close()

	st := &memStorage{}
	cfg := newTestClient(srv.URL, st).Resolve(context.Background(), "A-12-34")

	assert.Equal(t, "#00FF00", cfg.Color)
	assert.Equal(t, "Final", cfg.Event)
	assert.Equal(t, 100, cfg.Brightness)

	require.NotNil(t, st.rec)
	assert.Equal(t, "A-12-34", st.rec.SeatID)
	assert.Equal(t, "#00FF00", st.rec.Color)
	assert.False(t, st.rec.SavedAt.IsZero())
}

func TestResolveOfflineUsesValidRecord(t *testing.T) {
	st := &memStorage{rec: &Record{
		SeatID:        "A-12-34",
		Event:         "Final",
		Color:         "#0000FF",
		FallbackColor: "#000000",
		ExpiresAt:     time.Now().Add(time.Hour),
	}}

	cfg := newTestClient("http://127.0.0.1:1", st).Resolve(context.Background(), "A-12-34")

	assert.Equal(t, "#0000FF", cfg.Color)
	assert.Equal(t, "Final", cfg.Event)
}

func TestResolveOfflineExpiredRecordDemotesToFallback(t *testing.T) {
	st := &memStorage{rec: &Record{
		SeatID:        "A-12-34",
		Event:         "Final",
		Color:         "#0000FF",
		FallbackColor: "#000000",
		ExpiresAt:     time.Now().Add(-time.Minute),
	}}

	cfg := newTestClient("http://127.0.0.1:1", st).Resolve(context.Background(), "A-12-34")

	// The expired live color must not be rendered; the record's own
	// fallback takes its place while the label stays.
	assert.Equal(t, "#000000", cfg.Color)
	assert.Equal(t, "Final", cfg.Event)
}

func TestResolveOfflineEmptyStorageGoesDark(t *testing.T) {
	cfg := newTestClient("http://127.0.0.1:1", &memStorage{}).Resolve(context.Background(), "A-12-34")

	assert.Equal(t, OfflineEventLabel, cfg.Event)
	assert.Equal(t, "#000000", cfg.Color)
	assert.Equal(t, 100, cfg.Brightness)
}

func TestResolveIgnoresRecordOfDifferentSeat(t *testing.T) {
	st := &memStorage{rec: &Record{
		SeatID:        "B-9-9",
		Color:         "#FF00FF",
		FallbackColor: "#000000",
		ExpiresAt:     time.Now().Add(time.Hour),
	}}

	cfg := newTestClient("http://127.0.0.1:1", st).Resolve(context.Background(), "A-12-34")
	assert.Equal(t, OfflineEventLabel, cfg.Event)
	assert.Equal(t, "#000000", cfg.Color)
}

func TestResolveServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := newTestClient(srv.URL, &memStorage{}).Resolve(context.Background(), "A-12-34")
	assert.Equal(t, OfflineEventLabel, cfg.Event)
}

func TestResolveTimeoutFallsBackToRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	st := &memStorage{rec: &Record{
		SeatID:        "A-12-34",
		Event:         "Final",
		Color:         "#0000FF",
		FallbackColor: "#000000",
		ExpiresAt:     time.Now().Add(time.Hour),
	}}
	c := New(Config{BaseURL: srv.URL, Storage: st, Timeout: 50 * time.Millisecond})

	start := time.Now()
	cfg := c.Resolve(context.Background(), "A-12-34")

	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.Equal(t, "#0000FF", cfg.Color)
}

func TestFileStorageSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device", "seat.json")
	rec := Record{
		SeatID:        "A-12-34",
		Event:         "Final",
		Color:         "#00FF00",
		FallbackColor: "#000000",
		ExpiresAt:     time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		SavedAt:       time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, NewFileStorage(path).Save(rec))

	// A fresh handle, as after a device reboot.
	got, err := NewFileStorage(path).Load()
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestFileStorageLoadMissingFile(t *testing.T) {
	_, err := NewFileStorage(filepath.Join(t.TempDir(), "nope.json")).Load()
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestResolvePersistFailureStillReturnsLiveConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"event":"Final","color":"#00FF00","fallbackColor":"#000000","expiresAt":"2030-01-01T00:00:00Z","brightness":100}`))
	}))
	defer srv.Close()

	st := &memStorage{saveErr: assert.AnError}
	cfg := newTestClient(srv.URL, st).Resolve(context.Background(), "A-12-34")
	assert.Equal(t, "#00FF00", cfg.Color)
}

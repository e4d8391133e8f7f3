package pixelclient

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Record is the single persisted device record: the last resolution the
// device managed to fetch, keyed by seat so a cached color is never shown
// on a different seat. It survives process restarts.
type Record struct {
	SeatID        string    `json:"seatId"`
	Event         string    `json:"event"`
	Color         string    `json:"color"`
	FallbackColor string    `json:"fallbackColor"`
	ExpiresAt     time.Time `json:"expiresAt"`
	SavedAt       time.Time `json:"savedAt"`
}

// ErrNoRecord is returned by Storage.Load when nothing has been saved yet.
var ErrNoRecord = errors.New("no stored record")

// Storage persists the device record. One record per device.
type Storage interface {
	Save(r Record) error
	Load() (Record, error)
}

// FileStorage keeps the record as a JSON file, written atomically via a
// temp file so a crash mid-write cannot leave a truncated record behind.
type FileStorage struct {
	path string
}

// NewFileStorage stores the record at the given path, creating parent
// directories as needed on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Save writes the record to disk.
func (s *FileStorage) Save(r Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the record back, returning ErrNoRecord when the file does
// not exist or cannot be parsed.
func (s *FileStorage) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Record{}, ErrNoRecord
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, ErrNoRecord
	}
	return r, nil
}

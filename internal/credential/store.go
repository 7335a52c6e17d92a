// Package credential persists the user's AI Daily API key across
// sessions. The store's only contract is "last explicit write wins,
// readable until the next explicit write or clear".
package credential

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	pathEnvVar  = "AIDAILY_CREDENTIAL_FILE"
	storeSubdir = "aidaily"
	storeFile   = "credential.json"
)

// ErrEmptyKey rejects blank or whitespace-only keys on save. Nothing is
// persisted when it is returned.
var ErrEmptyKey = errors.New("API key cannot be empty")

type record struct {
	APIKey  string    `json:"apiKey"`
	SavedAt time.Time `json:"savedAt"`
}

// Store is a file-backed single-value credential store.
type Store struct {
	path string
}

// NewStore opens a store at path. An empty path resolves to
// $AIDAILY_CREDENTIAL_FILE, then the user config directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = os.Getenv(pathEnvVar)
	}
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "aidaily-config")
		}
		path = filepath.Join(base, storeSubdir, storeFile)
	}
	return &Store{path: path}, nil
}

// Path reports where the credential lives on disk.
func (s *Store) Path() string {
	return s.path
}

// Get returns the stored API key, or the empty string when none is set.
// A missing or unreadable file reads as "no credential".
func (s *Store) Get() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return ""
	}
	return rec.APIKey
}

// Set persists the key, rejecting blank input with ErrEmptyKey.
func (s *Store) Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(record{APIKey: key, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored key. Clearing an already-empty store is not
// an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

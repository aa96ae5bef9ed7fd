package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileName is the state file name inside the .ragclass directory.
const FileName = "state.json"

// State is the client state persisted between invocations.
type State struct {
	SessionID string    `json:"session_id"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Store reads and writes State as a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state. A missing file yields the zero State, which starts a new
// conversation.
func (s *Store) Load() (State, error) {
	if s.path == "" {
		return State{}, fmt.Errorf("state path is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	state.SessionID = strings.TrimSpace(state.SessionID)
	return state, nil
}

// SessionID returns the stored conversation id, or "" when none is stored.
func (s *Store) SessionID() (string, error) {
	state, err := s.Load()
	if err != nil {
		return "", err
	}
	return state.SessionID, nil
}

// SetSessionID persists id as the current conversation.
func (s *Store) SetSessionID(id string) error {
	return s.Save(State{SessionID: id})
}

// Save persists state using an atomic rename.
func (s *Store) Save(state State) error {
	if s.path == "" {
		return fmt.Errorf("state path is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state.UpdatedAt = s.now().UTC()
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmpPath := s.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, writeErr := file.Write(payload)
	syncErr := file.Sync()
	closeErr := file.Close()
	for _, err := range []error{writeErr, syncErr, closeErr} {
		if err != nil {
			_ = os.Remove(tmpPath)
			return err
		}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Clear forgets the stored conversation.
func (s *Store) Clear() error {
	if s.path == "" {
		return fmt.Errorf("state path is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

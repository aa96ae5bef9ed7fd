package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadMissingState verifies a missing state file yields an empty session.
func TestLoadMissingState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), ".ragclass", FileName))
	state, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.SessionID != "" {
		t.Fatalf("expected empty session id, got %q", state.SessionID)
	}
}

// TestSaveLoadClear verifies the session id round-trips and can be cleared.
func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ragclass", FileName)
	store := NewStore(path)
	store.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := store.SetSessionID("abc-123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, got %v", err)
	}
	state, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.SessionID != "abc-123" || !state.UpdatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected state %+v", state)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
	id, err := store.SessionID()
	if err != nil {
		t.Fatalf("session id: %v", err)
	}
	if id != "" {
		t.Fatalf("expected cleared id, got %q", id)
	}
}

// TestLoadCorruptState verifies unreadable state is reported.
func TestLoadCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

// TestEmptyPath verifies an unset path is rejected.
func TestEmptyPath(t *testing.T) {
	store := NewStore("")
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected load error")
	}
	if err := store.Save(State{}); err == nil {
		t.Fatalf("expected save error")
	}
}

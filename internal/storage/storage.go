// Package storage keeps the timer's local key-value store: a single JSON
// object of string keys and string values, rewritten atomically on every
// change.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/worktimer/internal/model"
)

const (
	FileName = "store.json"

	KeyLogs      = "workTimerLogs"
	KeyState     = "workTimerState"
	KeyContStart = "workTimerContStart"

	collapsePrefix = "workTimerCollapse_"
	panelPrefix    = "workTimerPanel_"
)

// ErrUnknownPanel is returned for panel ids that are not remembered.
var ErrUnknownPanel = errors.New("unknown panel")

// Category and panel ids whose collapsed flag is remembered.
var (
	CategoryPanels = []string{"cat-daily", "cat-work"}
	Panels         = []string{"panel-basic", "panel-switch"}
)

// BaseDir returns the default data directory (~/.worktimer).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".worktimer"), nil
}

// Store is a key-value file under a data directory.
type Store struct {
	path string
}

// New returns a store kept in dir/store.json. Nothing is read or created
// until the first access.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// load reads all keys. A missing file is an empty store; a corrupt one is
// moved aside to <file>.corrupt and reported.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", s.path, err)
	}

	kv := map[string]string{}
	if err := json.Unmarshal(data, &kv); err != nil {
		backupPath := s.path + ".corrupt"
		_ = os.Rename(s.path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", s.path, backupPath, err)
	}
	return kv, nil
}

// save atomically replaces the file with kv.
func (s *Store) save(kv map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	return WriteFileAtomic(s.path, data, 0o600)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// update loads the store, applies fn and saves the result.
func (s *Store) update(fn func(kv map[string]string) error) error {
	kv, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(kv); err != nil {
		return err
	}
	return s.save(kv)
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (string, bool, error) {
	kv, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := kv[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	return s.update(func(kv map[string]string) error {
		kv[key] = value
		return nil
	})
}

// LoadSnapshot reads the logs, state and work stretch keys. Missing keys
// yield an empty snapshot.
func (s *Store) LoadSnapshot() (model.Snapshot, error) {
	kv, err := s.load()
	if err != nil {
		return model.Snapshot{}, err
	}

	var snap model.Snapshot
	if raw := kv[KeyLogs]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.Logs); err != nil {
			return model.Snapshot{}, fmt.Errorf("corrupt %s in %s: %w", KeyLogs, s.path, err)
		}
	}
	snap.State = model.Activity(kv[KeyState])
	if raw := kv[KeyContStart]; raw != "" {
		cs, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("corrupt %s in %s: %w", KeyContStart, s.path, err)
		}
		snap.ContStart = &cs
	}
	return snap, nil
}

// SaveSnapshot writes the logs, state and work stretch keys, leaving every
// other key as it is. A nil ContStart removes its key.
func (s *Store) SaveSnapshot(snap model.Snapshot) error {
	logs := snap.Logs
	if logs == nil {
		logs = []model.Record{}
	}
	data, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("storage error marshalling logs: %w", err)
	}
	return s.update(func(kv map[string]string) error {
		kv[KeyLogs] = string(data)
		kv[KeyState] = string(snap.State)
		if snap.ContStart != nil {
			kv[KeyContStart] = snap.ContStart.Format(time.RFC3339)
		} else {
			delete(kv, KeyContStart)
		}
		return nil
	})
}

// panelKey maps a panel id to its key. Unknown ids are rejected.
func panelKey(id string) (string, error) {
	for _, p := range CategoryPanels {
		if p == id {
			return collapsePrefix + id, nil
		}
	}
	for _, p := range Panels {
		if p == id {
			return panelPrefix + id, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPanel, id)
}

// PanelCollapsed reports whether the panel id is collapsed. Panels without
// a stored flag are expanded.
func (s *Store) PanelCollapsed(id string) (bool, error) {
	key, err := panelKey(id)
	if err != nil {
		return false, err
	}
	v, _, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// TogglePanel flips the collapsed flag of panel id and returns the new value.
func (s *Store) TogglePanel(id string) (bool, error) {
	key, err := panelKey(id)
	if err != nil {
		return false, err
	}
	var collapsed bool
	err = s.update(func(kv map[string]string) error {
		collapsed = kv[key] != "1"
		if collapsed {
			kv[key] = "1"
		} else {
			kv[key] = "0"
		}
		return nil
	})
	return collapsed, err
}

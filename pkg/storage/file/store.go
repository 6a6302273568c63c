// Package file persists the last snapshot as a small JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"metalwatch/internal/metals"
	"metalwatch/pkg/storage"
)

const backend = "file"

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot file. A missing file is the first-run state, not an error;
// a file that is not a JSON object with numeric gold and silver is a *storage.StoreError.
func (s *Store) Load(_ context.Context) (metals.Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return metals.Snapshot{}, false, nil
	}
	if err != nil {
		return metals.Snapshot{}, false, &storage.StoreError{Backend: backend, Op: "load", Err: err}
	}

	snap, err := storage.DecodeSnapshot(data)
	if err != nil {
		return metals.Snapshot{}, false, &storage.StoreError{Backend: backend, Op: "load", Err: fmt.Errorf("%s: %w", s.path, err)}
	}
	return snap, true, nil
}

// Save writes the snapshot to a temporary file in the same directory and renames
// it over the previous one, so readers see either the old or the new record.
func (s *Store) Save(_ context.Context, snap metals.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return &storage.StoreError{Backend: backend, Op: "save", Err: err}
	}

	if err := writeAtomic(s.path, data); err != nil {
		return &storage.StoreError{Backend: backend, Op: "save", Err: err}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

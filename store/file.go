package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"launch-notifier/model"
)

// FileStore keeps the set as a JSON array in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the set. A missing file is an empty set.
func (s *FileStore) Load(_ context.Context) (NotifiedSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NotifiedSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	// Older state files hold the provider's numeric ids.
	var ids []model.ID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	set := make(NotifiedSet, 0, len(ids))
	for _, id := range ids {
		set = set.Add(string(id))
	}
	return set, nil
}

// Save replaces the file contents with set, via a temp file and rename.
func (s *FileStore) Save(_ context.Context, set NotifiedSet) error {
	if set == nil {
		set = NotifiedSet{}
	}
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

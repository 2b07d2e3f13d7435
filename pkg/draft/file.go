package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists each form's draft as a JSON document under a directory,
// one file per form key.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("draft: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("draft: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(formID string) string {
	return filepath.Join(s.dir, Key(formID)+".json")
}

// Save implements Store.
func (s *FileStore) Save(formID string, values map[string]string) error {
	if err := validFormID(formID); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("draft: encode %s: %w", formID, err)
	}
	if err := os.WriteFile(s.path(formID), payload, 0o644); err != nil {
		return fmt.Errorf("draft: write %s: %w", formID, err)
	}
	return nil
}

// Load implements Store.
func (s *FileStore) Load(formID string) (map[string]string, error) {
	if err := validFormID(formID); err != nil {
		return nil, err
	}

	out := make(map[string]string)
	data, err := os.ReadFile(s.path(formID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("draft: read %s: %w", formID, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("draft: decode %s: %w", formID, err)
	}
	return out, nil
}

// Clear implements Store.
func (s *FileStore) Clear(formID string) error {
	if err := validFormID(formID); err != nil {
		return err
	}
	if err := os.Remove(s.path(formID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("draft: clear %s: %w", formID, err)
	}
	return nil
}

// Package prefs persists UI preferences (sort state, view settings) as
// a small TOML document. It implements the grid engine's preference
// port; the engine treats persistence as best-effort, so callers log
// failures rather than propagate them into the render loop.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Store is a file-backed string key-value store. Values are held in
// memory and the whole document is rewritten on every Save; preference
// sets are tiny, so simplicity wins over incremental writes.
type Store struct {
	path   string
	values map[string]string
}

// Open loads the preference file at path. A missing file yields an
// empty store; it is created on first Save.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s.values); err != nil {
		return nil, fmt.Errorf("decode prefs %s: %w", path, err)
	}
	return s, nil
}

// Load returns the value for key, reporting whether it exists.
func (s *Store) Load(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Save sets key to value and rewrites the preference file.
func (s *Store) Save(key, value string) error {
	s.values[key] = value
	return s.flush()
}

// Delete removes key and rewrites the preference file. Deleting a
// missing key is a no-op.
func (s *Store) Delete(key string) error {
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs directory: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("write prefs %s: %w", s.path, err)
	}
	if err := toml.NewEncoder(f).Encode(s.values); err != nil {
		f.Close()
		return fmt.Errorf("encode prefs: %w", err)
	}
	return f.Close()
}

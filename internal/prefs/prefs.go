// Package prefs is a small file-backed key-value store for user-facing
// settings such as the display name. It is loaded once at startup and passed
// to the layers that need it; there is no global singleton.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KeyUserName stores the display name greeted on the home screen.
const KeyUserName = "user_name"

type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Load reads the preference file. A missing file is not an error; the store
// starts empty and the file is created on the first Set.
func Load(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse preferences: %w", err)
	}
	return s, nil
}

// Get returns the stored value for key, or empty when unset.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Set stores and persists a value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.flushLocked()
}

// UserName returns the stored display name, or empty when not set yet.
func (s *Store) UserName() string {
	return s.Get(KeyUserName)
}

// SetUserName stores the display name.
func (s *Store) SetUserName(name string) error {
	return s.Set(KeyUserName, name)
}

func (s *Store) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

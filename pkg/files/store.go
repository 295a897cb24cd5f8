package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"pkt.systems/pslog"
)

// Store is a durable key-value store backed by a single YAML file.
// Every Set rewrites the file atomically, so a crash never leaves a
// half-written store behind.
type Store struct {
	path string
	log  pslog.Logger
}

// NewStore opens (without reading) the store at path
func NewStore(path string) *Store {
	return NewStoreWithLogger(path, nil)
}

// NewStoreWithLogger opens the store at path with logging
func NewStoreWithLogger(path string, logger pslog.Logger) *Store {
	if logger != nil {
		logger = logger.With("store", path)
	}
	return &Store{path: path, log: logger}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key and whether it was present
func (s *Store) Get(key string) (string, bool, error) {
	data, err := s.readAll()
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	if s.log != nil {
		s.log.Trace("store get", "key", key, "hit", ok)
	}
	return value, ok, nil
}

// Set stores value under key
func (s *Store) Set(key, value string) error {
	data, err := s.readAll()
	if err != nil {
		return err
	}
	data[key] = value
	if err := s.writeAll(data); err != nil {
		if s.log != nil {
			s.log.Warn("store set failed", "key", key, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Debug("store set", "key", key, "bytes", len(value))
	}
	return nil
}

// Delete removes key from the store; deleting a missing key is not an error
func (s *Store) Delete(key string) error {
	data, err := s.readAll()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.writeAll(data)
}

func (s *Store) readAll() (map[string]string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}
	data := map[string]string{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse store YAML %s: %w", s.path, err)
	}
	if data == nil {
		data = map[string]string{}
	}
	return data, nil
}

func (s *Store) writeAll(data map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory for store: %w", err)
	}
	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal store to YAML: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "store-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp store: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to chmod store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store %s: %w", s.path, err)
	}
	return nil
}

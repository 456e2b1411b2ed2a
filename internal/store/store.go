// Package store provides the JSON state file for gg.
// The file is a single JSON object holding global settings, tracker credentials,
// per-repository config and one record per topic branch. It is read once when a
// command starts, mutated in memory and written back whole by Flush.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrKeyNotFound is returned by Remove when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Store is the in-memory view of the state file.
// It is not safe for concurrent use, and nothing prevents two processes from
// clobbering each other's writes to the same file.
type Store struct {
	path  string
	data  map[string]json.RawMessage
	dirty bool
}

// Open reads the state file at path. A missing file starts out empty and
// dirty, so the next Flush creates it.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.dirty = true
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", path, err)
	}
	if s.data == nil {
		s.data = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Read returns a copy of the whole mapping with every value decoded.
func (s *Store) Read() (map[string]any, error) {
	out := make(map[string]any, len(s.data))
	for k, raw := range s.data {
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Get decodes the value stored under key into v.
// Returns false when the key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// Update merges top-level keys into the state, last write wins.
func (s *Store) Update(partial map[string]any) error {
	for k, v := range partial {
		raw, err := encodeValue(v)
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		s.data[k] = raw
	}
	s.dirty = true
	return nil
}

// Set is Update for a single key.
func (s *Store) Set(key string, v any) error {
	return s.Update(map[string]any{key: v})
}

// Remove deletes a top-level key.
func (s *Store) Remove(key string) error {
	if _, ok := s.data[key]; !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	delete(s.data, key)
	s.dirty = true
	return nil
}

// Dirty reports whether there are unwritten changes.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Flush writes the whole state back to disk if anything changed.
// Keys are sorted and indented by two spaces.
func (s *Store) Flush() error {
	if !s.dirty {
		return nil
	}

	out, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	out = append(out, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gg-state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}

	s.dirty = false
	return nil
}

// encodeValue marshals v and re-encodes it through a generic value so nested
// object keys come out sorted like the top level.
func encodeValue(v any) (json.RawMessage, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	generic, err := decodeValue(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

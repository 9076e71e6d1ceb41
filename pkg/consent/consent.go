// Package consent provides the biometric-consent capability gating all
// pose processing. The overlay receives a Store at construction; it
// never reaches for ambient state.
package consent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Key under which the grant is persisted.
const Key = "consent_biometric"

// Store is the injected read/write consent boundary. Granted is read
// once at overlay construction; Grant is written exactly once, by an
// explicit user interaction.
type Store interface {
	Granted() bool
	Grant() error
}

// MemStore is an in-memory consent store for tests and ephemeral runs.
type MemStore struct {
	mu      sync.Mutex
	granted bool
}

// NewMemStore creates a memory store with the given initial state.
func NewMemStore(granted bool) *MemStore {
	return &MemStore{granted: granted}
}

// Granted reports whether consent has been given.
func (m *MemStore) Granted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.granted
}

// Grant records consent.
func (m *MemStore) Grant() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.granted = true
	return nil
}

// FileStore persists the consent flag as a small JSON key-value file so
// it survives across sessions.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at the given path. The file
// is created on first grant; a missing file means consent is absent.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Granted reads the persisted flag. Any read or parse failure is
// treated as consent absent.
func (f *FileStore) Granted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	var kv map[string]string
	if err := json.Unmarshal(data, &kv); err != nil {
		return false
	}
	return kv[Key] == "granted"
}

// Grant persists the flag.
func (f *FileStore) Grant() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create consent dir: %w", err)
		}
	}
	data, err := json.Marshal(map[string]string{Key: "granted"})
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write consent file: %w", err)
	}
	return nil
}

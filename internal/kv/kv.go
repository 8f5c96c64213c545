// Package kv provides the durable key-value store used for session,
// lockout, and draft records. Values are JSON-serialized.
package kv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store is the key-value capability injected into the auth gate and
// draft manager. Get reports whether the key was present.
type Store interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

// FileStore persists the whole map as one JSON file. It is process-local
// and never shared across processes, so a mutex is the only coordination.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// NewFileStore opens (or creates) a file store at dataDir/state.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}

	fs := &FileStore{
		path: filepath.Join(dataDir, "state.json"),
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		// Corrupt state file: start fresh rather than refusing to boot.
		fs.data = make(map[string]json.RawMessage)
	}

	return fs, nil
}

func (fs *FileStore) Get(key string, v any) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	raw, ok := fs.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (fs *FileStore) Set(key string, v any) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fs.data[key] = raw
	return fs.flush()
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.data[key]; !ok {
		return nil
	}
	delete(fs.data, key)
	return fs.flush()
}

// flush rewrites the backing file. Caller must hold the mutex.
func (fs *FileStore) flush() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path, raw, 0600)
}

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]json.RawMessage)}
}

func (ms *MemStore) Get(key string, v any) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	raw, ok := ms.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (ms *MemStore) Set(key string, v any) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ms.data[key] = raw
	return nil
}

func (ms *MemStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.data, key)
	return nil
}

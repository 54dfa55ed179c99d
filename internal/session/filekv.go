package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores keys in a single JSON file. Writes go through a temp file
// and rename so a crash never leaves a half-written store. A missing or
// corrupt file reads as an empty store.
type FileKV struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

func NewFileKV(path string) *FileKV {
	kv := &FileKV{path: path, data: map[string]string{}}
	if raw, err := os.ReadFile(path); err == nil {
		var loaded map[string]string
		if json.Unmarshal(raw, &loaded) == nil && loaded != nil {
			kv.data = loaded
		}
	}
	return kv
}

func (kv *FileKV) Get(_ context.Context, key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (kv *FileKV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return kv.flushLocked()
}

func (kv *FileKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if _, ok := kv.data[key]; !ok {
		return nil
	}
	delete(kv.data, key)
	return kv.flushLocked()
}

func (kv *FileKV) flushLocked() error {
	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(kv.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, kv.path)
}

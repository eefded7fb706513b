// Package pref persists user preferences as a small JSON key-value file.
//
// The theme toggle is the only core consumer: the chosen theme survives
// restarts the way a browser client would keep it in local storage.
package pref

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Prefs is a file-backed preference store. Reads are served from memory;
// every write persists immediately.
type Prefs struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// Open loads preferences from path, creating an empty store when the file
// does not exist yet.
func Open(path string) (*Prefs, error) {
	p := &Prefs{
		path:   path,
		values: make(map[string]string),
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.values); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the stored value and whether it exists.
func (p *Prefs) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

// GetDefault returns the stored value, or fallback when unset.
func (p *Prefs) GetDefault(key, fallback string) string {
	if v, ok := p.Get(key); ok {
		return v
	}
	return fallback
}

// Set stores a value and persists the file.
func (p *Prefs) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return p.flush()
}

// Toggle flips key between a and b: an unset or unrecognized value becomes
// b. The new value is returned.
func (p *Prefs) Toggle(key, a, b string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := b
	if p.values[key] == b {
		next = a
	}
	p.values[key] = next
	return next, p.flush()
}

// flush writes the store to disk. Callers hold the lock.
func (p *Prefs) flush() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(p.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, raw, 0o644)
}

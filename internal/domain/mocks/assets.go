// Package mocks provides mock implementations for testing.
package mocks

import "context"

// AssetStore is a mock implementation of ports.AssetStore.
type AssetStore struct {
	Keys map[string]bool
	// Failing keys return Err instead of an answer.
	Failing map[string]bool
	Err     error
	Probes  []string
}

// NewAssetStore creates a mock asset store holding keys.
func NewAssetStore(keys ...string) *AssetStore {
	m := &AssetStore{
		Keys:    make(map[string]bool, len(keys)),
		Failing: make(map[string]bool),
	}
	for _, k := range keys {
		m.Keys[k] = true
	}
	return m
}

// Exists reports whether key was registered.
func (m *AssetStore) Exists(_ context.Context, key string) (bool, error) {
	m.Probes = append(m.Probes, key)
	if m.Failing[key] {
		return false, m.Err
	}
	return m.Keys[key], nil
}

package basket

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/indexer/codec"
	"github.com/ic-timon/ballindex/indexer/store"
)

// Attribution describes the origin of a leaf.
type Attribution struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	OriginTitle string `json:"originTitle"`
	OriginURL   string `json:"originUrl"`
	License     string `json:"license"`
	LicenseURL  string `json:"licenseUrl"`
}

// MetadataStore resolves leaf ids to attributions.
type MetadataStore interface {
	Attribution(id string) (Attribution, bool, error)
}

// MemoryMetadata is a MetadataStore held in memory. Safe for concurrent use.
type MemoryMetadata struct {
	mu    sync.RWMutex
	attrs map[string]Attribution
}

// NewMemoryMetadata returns a store seeded with attrs.
func NewMemoryMetadata(attrs ...Attribution) *MemoryMetadata {
	m := &MemoryMetadata{attrs: make(map[string]Attribution, len(attrs))}
	for _, a := range attrs {
		m.attrs[a.ID] = a
	}
	return m
}

// Put adds or replaces an attribution.
func (m *MemoryMetadata) Put(a Attribution) {
	m.mu.Lock()
	m.attrs[a.ID] = a
	m.mu.Unlock()
}

// Attribution implements MetadataStore.
func (m *MemoryMetadata) Attribution(id string) (Attribution, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attrs[id]
	return a, ok, nil
}

// BoltMetadata reads attributions written by Publish from a fragment store.
type BoltMetadata struct {
	Store *store.FragmentStore
	Codec codec.Codec
}

// Attribution implements MetadataStore.
func (m *BoltMetadata) Attribution(id string) (Attribution, bool, error) {
	data, err := m.Store.Attribution(id)
	if errors.Is(err, store.ErrNotFound) {
		return Attribution{}, false, nil
	}
	if err != nil {
		return Attribution{}, false, err
	}
	var a Attribution
	if err := m.Codec.Unmarshal(data, &a); err != nil {
		return Attribution{}, false, errors.Wrapf(err, "attribution %s", id)
	}
	return a, true, nil
}

// collect resolves the attributions of ids, skipping unknown ones.
func collect(md MetadataStore, ids []string) (map[string]Attribution, error) {
	out := make(map[string]Attribution, len(ids))
	if md == nil {
		return out, nil
	}
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		a, ok, err := md.Attribution(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out[id] = a
		}
	}
	return out, nil
}

package metadata

import (
	"sync"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/models"
)

// Reader answers marker questions about declarations
type Reader interface {
	// Declared returns the first marker of the kind written directly on the declaration
	Declared(d *models.Declaration, kind annotations.Kind) (*annotations.Marker, bool)

	// Attached returns the markers of the kind attached during processing
	Attached(d *models.Declaration, kind annotations.Kind) []*annotations.Marker
}

// Sink receives markers synthesized during processing
type Sink interface {
	Annotate(d *models.Declaration, kind annotations.Kind, params annotations.Params)
}

// Store is both the read and the write side of the metadata layer
type Store interface {
	Reader
	Sink
}

// MemoryStore keeps attached markers in memory. Declared markers live on the
// declarations themselves and are never modified.
type MemoryStore struct {
	mu       sync.RWMutex
	registry annotations.MarkerRegistry
	attached map[*models.Declaration][]*annotations.Marker
}

// NewMemoryStore creates an empty store backed by the default catalog
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithRegistry(annotations.DefaultRegistry())
}

// NewMemoryStoreWithRegistry creates an empty store backed by the given catalog
func NewMemoryStoreWithRegistry(registry annotations.MarkerRegistry) *MemoryStore {
	return &MemoryStore{
		registry: registry,
		attached: make(map[*models.Declaration][]*annotations.Marker),
	}
}

// Declared returns the first declared marker of the kind
func (s *MemoryStore) Declared(d *models.Declaration, kind annotations.Kind) (*annotations.Marker, bool) {
	for _, m := range d.Markers {
		if m.Kind == kind {
			return m, true
		}
	}
	return nil, false
}

// Attached returns a copy of the attached markers of the kind
func (s *MemoryStore) Attached(d *models.Declaration, kind annotations.Kind) []*annotations.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*annotations.Marker
	for _, m := range s.attached[d] {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Annotate attaches a marker of the kind under its canonical name
func (s *MemoryStore) Annotate(d *models.Declaration, kind annotations.Kind, params annotations.Params) {
	name, ok := s.registry.NameOf(kind)
	if !ok {
		name = annotations.SerdeNamespace + kind.String()
	}
	if params == nil {
		params = annotations.Params{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached[d] = append(s.attached[d], &annotations.Marker{Name: name, Kind: kind, Params: params})
}

// AttachedAll returns every marker attached to the declaration, in order
func (s *MemoryStore) AttachedAll(d *models.Declaration) []*annotations.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*annotations.Marker, len(s.attached[d]))
	copy(out, s.attached[d])
	return out
}

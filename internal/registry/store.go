// Package registry provides the process-wide store of provenance records.
//
// The store is a best-effort in-memory cache for correlation and debugging,
// not a durable database. Records live for the process lifetime; there is no
// eviction.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/raphaelgruber/ontograph/internal/models"
)

// ErrNotFound indicates the requested object id is not in the store.
var ErrNotFound = errors.New("object not found")

// DefaultSearchLimit caps searches that pass no explicit limit.
const DefaultSearchLimit = 100

// Store is an append-only keyed store of provenance records. Safe for
// concurrent use by parallel document pipelines.
type Store struct {
	mu      sync.RWMutex
	records map[string]models.ProvenanceRecord
	order   []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]models.ProvenanceRecord),
	}
}

// Put stores a record under id. Writes are append-only in practice; a
// repeated id overwrites the record but keeps its original insertion slot.
func (s *Store) Put(id string, rec models.ProvenanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	s.records[id] = rec
}

// Get returns the record for id, or ErrNotFound.
func (s *Store) Get(id string) (models.ProvenanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return models.ProvenanceRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// List returns all records in insertion order.
func (s *Store) List() []models.ProvenanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProvenanceRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Search returns records matching the optional type filter (exact,
// case-insensitive) and value substring (case-insensitive, matched against
// the value of entities and the source/target of relationships), in
// insertion order, capped at limit (DefaultSearchLimit when <= 0).
func (s *Store) Search(typeFilter, valueSubstring string, limit int) []models.ProvenanceRecord {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(valueSubstring)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProvenanceRecord, 0)
	for _, id := range s.order {
		rec := s.records[id]
		if typeFilter != "" && !strings.EqualFold(rec.Type, typeFilter) {
			continue
		}
		if needle != "" && !matchesValue(rec, needle) {
			continue
		}
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func matchesValue(rec models.ProvenanceRecord, needle string) bool {
	for _, v := range []string{rec.Value, rec.Source, rec.Target} {
		if v != "" && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

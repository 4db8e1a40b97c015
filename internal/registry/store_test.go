package registry

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityRecord(id, typ, value string) models.ProvenanceRecord {
	return models.ProvenanceRecord{
		ID:        id,
		Kind:      models.ObjectKindEntity,
		Type:      typ,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
}

func TestPutAndGet(t *testing.T) {
	s := NewStore()
	rec := entityRecord("person_name_john_abc123", "PERSON_NAME", "John")
	s.Put(rec.ID, rec)

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "PERSON_NAME", got.Type)
	assert.Equal(t, "John", got.Value)
}

func TestGetNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListInsertionOrder(t *testing.T) {
	s := NewStore()
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("rec_%d", i)
		s.Put(id, entityRecord(id, "PERSON_NAME", fmt.Sprintf("v%d", i)))
	}

	recs := s.List()
	require.Len(t, recs, 4)
	for i, rec := range recs {
		assert.Equal(t, fmt.Sprintf("rec_%d", i), rec.ID)
	}
}

func TestSearchLimitAndOrder(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("rec_%d", i)
		s.Put(id, entityRecord(id, "PERSON_NAME", "John Smith"))
	}

	recs := s.Search("PERSON_NAME", "john", 1)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec_0", recs[0].ID, "first match by insertion order")
}

func TestSearchFilters(t *testing.T) {
	s := NewStore()
	s.Put("a", entityRecord("a", "PERSON_NAME", "John Smith"))
	s.Put("b", entityRecord("b", "COMPANY_NAME", "Acme Corp"))
	s.Put("c", models.ProvenanceRecord{
		ID:     "c",
		Kind:   models.ObjectKindRelationship,
		Type:   "WORKS_AT",
		Source: "John Smith",
		Target: "Acme Corp",
	})

	assert.Len(t, s.Search("person_name", "", 0), 1)
	assert.Len(t, s.Search("", "acme", 0), 2, "matches entity value and relationship target")
	assert.Empty(t, s.Search("PERSON_NAME", "acme", 0))
}

func TestPutSameIDKeepsSlot(t *testing.T) {
	s := NewStore()
	s.Put("a", entityRecord("a", "PERSON_NAME", "old"))
	s.Put("b", entityRecord("b", "PERSON_NAME", "other"))
	s.Put("a", entityRecord("a", "PERSON_NAME", "new"))

	recs := s.List()
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "new", recs[0].Value)
}

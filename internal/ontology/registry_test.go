package ontology

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry(nil)

	r.Register(RegisterInput{
		Name:              "financial",
		EntityTypes:       []string{"PERSON_NAME", "COMPANY_NAME", "EMAIL_ADDRESS"},
		RelationshipTypes: []string{"WORKS_AT", "LOCATED_IN"},
		PropertyTypes:     []string{"EMAIL_ADDRESS"},
	})

	cfg := r.Resolve("financial")
	assert.Equal(t, "financial", cfg.Name)
	assert.Equal(t, []string{"PERSON_NAME", "COMPANY_NAME", "EMAIL_ADDRESS"}, cfg.EntityTypes)
	assert.Equal(t, []string{"WORKS_AT", "LOCATED_IN"}, cfg.RelationshipTypes)
	assert.Equal(t, []string{"EMAIL_ADDRESS"}, cfg.PropertyTypes)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(RegisterInput{
		EntityTypes: []string{"PERSON_NAME"},
	})

	cfg := r.Resolve("no-such-ontology")
	assert.Equal(t, DefaultName, cfg.Name)
	assert.Equal(t, []string{"PERSON_NAME"}, cfg.EntityTypes)
}

func TestResolveLegacyFallback(t *testing.T) {
	r := NewRegistry(nil)

	cfg := r.Resolve("anything")
	assert.Empty(t, cfg.EntityTypes)
	assert.Empty(t, cfg.RelationshipTypes)
}

func TestRegisterOverwritesWholesale(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(RegisterInput{
		Name:              "a",
		EntityTypes:       []string{"PERSON_NAME", "COMPANY_NAME"},
		RelationshipTypes: []string{"WORKS_AT"},
	})
	r.Register(RegisterInput{
		Name:        "a",
		EntityTypes: []string{"LOCATION"},
	})

	cfg := r.Resolve("a")
	assert.Equal(t, []string{"LOCATION"}, cfg.EntityTypes)
	assert.Empty(t, cfg.RelationshipTypes, "old relationship types must not survive an overwrite")
}

func TestCompactFormProjectsRelationshipTypes(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(RegisterInput{
		Name:        "compact",
		EntityTypes: []string{"PERSON_NAME", "COMPANY_NAME", "LOCATION"},
		Patterns: []Pattern{
			{Source: "PERSON_NAME", Type: "WORKS_AT", Target: "COMPANY_NAME"},
			{Source: "COMPANY_NAME", Type: "LOCATED_IN", Target: "LOCATION"},
			{Source: "PERSON_NAME", Type: "WORKS_AT", Target: "COMPANY_NAME"},
		},
	})

	cfg := r.Resolve("compact")
	assert.Equal(t, []string{"WORKS_AT", "LOCATED_IN"}, cfg.RelationshipTypes)
	assert.Len(t, cfg.Patterns, 3)
}

func TestPropertyTypesSubsetOfEntityTypes(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(RegisterInput{
		Name:          "p",
		EntityTypes:   []string{"PERSON_NAME"},
		PropertyTypes: []string{"EMAIL_ADDRESS"},
	})

	cfg := r.Resolve("p")
	assert.Contains(t, cfg.EntityTypes, "EMAIL_ADDRESS")
	assert.Equal(t, []string{"PERSON_NAME"}, cfg.CoreEntityTypes())
}

func TestListAndSummaries(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(RegisterInput{Name: "a", EntityTypes: []string{"X", "Y"}})
	r.Register(RegisterInput{Name: "b", EntityTypes: []string{"Z"}, RelationshipTypes: []string{"R"}})

	assert.ElementsMatch(t, []string{"a", "b"}, r.List())

	sums := r.Summaries()
	assert.Equal(t, 2, sums["a"].EntityTypes)
	assert.Equal(t, 1, sums["b"].RelationshipTypes)
}

func TestPatternJSONRoundTrip(t *testing.T) {
	p := Pattern{Source: "PERSON_NAME", Type: "WORKS_AT", Target: "COMPANY_NAME"}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `["PERSON_NAME","WORKS_AT","COMPANY_NAME"]`, string(data))

	var back Pattern
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)

	var bad Pattern
	assert.Error(t, json.Unmarshal([]byte(`["a","b"]`), &bad))
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ontologies.yaml")
	seed := `ontologies:
  - name: financial
    entity_types: [PERSON_NAME, COMPANY_NAME, EMAIL_ADDRESS]
    property_types: [EMAIL_ADDRESS]
    descriptions:
      PERSON_NAME: "Full name of a person"
    patterns:
      - [PERSON_NAME, WORKS_AT, COMPANY_NAME]
  - name: default
    entity_types: [PERSON_NAME]
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	r := NewRegistry(nil)
	n, err := r.LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cfg := r.Resolve("financial")
	assert.Equal(t, []string{"WORKS_AT"}, cfg.RelationshipTypes)
	assert.Equal(t, "Full name of a person", cfg.Description("PERSON_NAME"))
}

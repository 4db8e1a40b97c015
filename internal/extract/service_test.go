package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/raphaelgruber/ontograph/internal/ontology"
	"github.com/raphaelgruber/ontograph/internal/registry"
	"github.com/raphaelgruber/ontograph/internal/tagger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generatorFunc adapts a function to the Generator interface.
type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const validResponse = `{"entities": [
	{"value": "John Smith", "type": "PERSON_NAME", "properties": {"email": "john@acme.com"}},
	{"value": "Acme Corp", "types": ["COMPANY_NAME"]}
], "relationships": [
	{"source": "John Smith", "target": "Acme Corp", "type": "WORKS_AT"}
]}`

func newTestService(t *testing.T, gen Generator) (*Service, *registry.Store) {
	t.Helper()

	ontologies := ontology.NewRegistry(nil)
	ontologies.Register(ontology.RegisterInput{
		EntityTypes:       []string{"PERSON_NAME", "COMPANY_NAME", "EMAIL_ADDRESS"},
		RelationshipTypes: []string{"WORKS_AT"},
		PropertyTypes:     []string{"EMAIL_ADDRESS"},
	})

	objects := registry.NewStore()
	svc := NewService(Options{
		Ontologies:       ontologies,
		Objects:          objects,
		LLM:              gen,
		Tagger:           tagger.NewPatternTagger(),
		BatchConcurrency: 2,
	})
	return svc, objects
}

func TestExtractGraphSuccess(t *testing.T) {
	svc, objects := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return validResponse, nil
	}))

	result, err := svc.ExtractGraph(context.Background(), "John Smith works at Acme Corp", "", "")
	require.NoError(t, err)

	require.Len(t, result.Entities, 2)
	require.Len(t, result.Relationships, 1)
	assert.True(t, result.Metadata.Success)
	assert.Equal(t, "default", result.OntologyUsed)
	assert.Equal(t, "default", result.DatabaseUsed)
	assert.NotEmpty(t, result.RequestID)

	// Repair pass: missing confidence defaults, types-list fallback.
	assert.Equal(t, defaultConfidence, result.Entities[0].Confidence)
	assert.Equal(t, "COMPANY_NAME", result.Entities[1].Type)

	// Every object carries an id and a provenance record.
	for _, e := range result.Entities {
		require.NotEmpty(t, e.ID)
		rec, err := objects.Get(e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.Value, rec.Value)
		assert.Equal(t, e.Type, rec.Type)
	}
	require.NotEmpty(t, result.Relationships[0].ID)
}

func TestExtractGraphReferentialConsistency(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return validResponse, nil
	}))

	result, err := svc.ExtractGraph(context.Background(), "John Smith works at Acme Corp", "", "")
	require.NoError(t, err)

	values := make(map[string]struct{})
	for _, e := range result.Entities {
		values[e.Value] = struct{}{}
	}
	for _, r := range result.Relationships {
		assert.Contains(t, values, r.Source)
		assert.Contains(t, values, r.Target)
	}
}

func TestExtractGraphMalformedResponse(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return `{"entities": [{"value": "tru`, nil
	}))

	result, err := svc.ExtractGraph(context.Background(), "some text", "", "")
	require.NoError(t, err, "malformed model output must not be a hard error")

	assert.Empty(t, result.Entities)
	assert.Empty(t, result.Relationships)
	assert.False(t, result.Metadata.Success)
	assert.NotEmpty(t, result.RefinementInfo)
}

func TestExtractGraphEmptyOntology(t *testing.T) {
	ontologies := ontology.NewRegistry(nil)
	svc := NewService(Options{
		Ontologies: ontologies,
		Objects:    registry.NewStore(),
		LLM: generatorFunc(func(ctx context.Context, prompt string) (string, error) {
			return validResponse, nil
		}),
	})

	_, err := svc.ExtractGraph(context.Background(), "text", "anything", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestExtractGraphNoLLM(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.ExtractGraph(context.Background(), "text", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestExtractGraphUpstreamFailure(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("connection refused")
	}))

	_, err := svc.ExtractGraph(context.Background(), "text", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestExtractGraphPromptConstrainedToOntology(t *testing.T) {
	var seenPrompt string
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		seenPrompt = prompt
		return validResponse, nil
	}))

	_, err := svc.ExtractGraph(context.Background(), "the document", "", "")
	require.NoError(t, err)

	assert.Contains(t, seenPrompt, "PERSON_NAME")
	assert.Contains(t, seenPrompt, "WORKS_AT")
	assert.Contains(t, seenPrompt, "the document")
}

func TestExtractEntitiesRawPath(t *testing.T) {
	svc, _ := newTestService(t, nil)

	entities, err := svc.ExtractEntities(context.Background(), "mail john@acme.com about $5,000.00", "")
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.NotNil(t, entities[0].Start, "raw path populates spans")
}

func TestExtractEntitiesNoTagger(t *testing.T) {
	svc := NewService(Options{
		Ontologies: ontology.NewRegistry(nil),
		Objects:    registry.NewStore(),
	})

	_, err := svc.ExtractEntities(context.Background(), "text", "")
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestRefineEntities(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return `{"entities": [{"value": "John Smith", "type": "PERSON_NAME", "properties": {"email": "john@acme.com"}}]}`, nil
	}))

	result, err := svc.RefineEntities(context.Background(), "John Smith, john@acme.com", "")
	require.NoError(t, err)

	require.Len(t, result.RawEntities, 1) // the email candidate
	require.Len(t, result.RefinedEntities, 1)
	assert.Equal(t, "PERSON_NAME", result.RefinedEntities[0].Type)
	assert.Equal(t, "john@acme.com", result.RefinedEntities[0].Properties["email"])
}

func TestRefineEntitiesDegradesToRaw(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("model overloaded")
	}))

	result, err := svc.RefineEntities(context.Background(), "mail john@acme.com", "")
	require.NoError(t, err)
	assert.Equal(t, result.RawEntities, result.RefinedEntities)
	assert.Contains(t, result.RefinementInfo, "raw candidates")
}

func TestEmbedUnconfigured(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Embed(context.Background(), []string{"a"})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

// systemGenerator records which call form it received.
type systemGenerator struct {
	system string
	prompt string
	plain  bool
}

func (g *systemGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.plain = true
	return validResponse, nil
}

func (g *systemGenerator) GenerateWithSystem(ctx context.Context, system, prompt string) (string, error) {
	g.system = system
	g.prompt = prompt
	return validResponse, nil
}

func TestExtractGraphPrefersSystemMessage(t *testing.T) {
	gen := &systemGenerator{}
	svc, _ := newTestService(t, gen)

	_, err := svc.ExtractGraph(context.Background(), "the document", "", "")
	require.NoError(t, err)

	assert.False(t, gen.plain, "system-capable generators get the split form")
	assert.Contains(t, gen.system, "JSON")
	assert.Contains(t, gen.prompt, "the document")
}

// embedderStub returns zero vectors of a fixed dimension.
type embedderStub struct{ dim int }

func (e *embedderStub) Embed(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, e.dim), nil
}

func (e *embedderStub) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, e.dim)
	}
	return out, nil
}

func (e *embedderStub) Model() string  { return "stub-embed" }
func (e *embedderStub) Dimension() int { return e.dim }

func TestExtractGraphEmbeddingEnrichment(t *testing.T) {
	ontologies := ontology.NewRegistry(nil)
	ontologies.Register(ontology.RegisterInput{
		EntityTypes:       []string{"PERSON_NAME"},
		RelationshipTypes: []string{"WORKS_AT"},
	})
	svc := NewService(Options{
		Ontologies: ontologies,
		Objects:    registry.NewStore(),
		LLM: generatorFunc(func(ctx context.Context, prompt string) (string, error) {
			return `{"entities": [{"value": "John", "type": "PERSON_NAME"}], "relationships": []}`, nil
		}),
		Embedder: &embedderStub{dim: 4},
	})

	result, err := svc.ExtractGraph(context.Background(), "John", "", "")
	require.NoError(t, err)
	require.Len(t, result.Embedding, 4)
}

func TestExtractGraphFoldsPropertyTypeEntities(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return `{"entities": [
			{"value": "John Smith", "type": "PERSON_NAME"},
			{"value": "john@acme.com", "type": "EMAIL_ADDRESS"}
		], "relationships": []}`, nil
	}))

	result, err := svc.ExtractGraph(context.Background(), "John Smith, john@acme.com", "", "")
	require.NoError(t, err)

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "PERSON_NAME", result.Entities[0].Type)
	assert.Equal(t, "john@acme.com", result.Entities[0].Properties["email_address"])
	assert.Equal(t, 1, result.Metadata.EntityCount)
}

// Property-preservation law: the prompt must forbid standalone entities of
// property types, so a compliant model folds them into properties. Verify
// the constraint is actually rendered for the resolved ontology.
func TestPromptForbidsStandalonePropertyEntities(t *testing.T) {
	var seenPrompt string
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		seenPrompt = prompt
		return validResponse, nil
	}))

	_, err := svc.ExtractGraph(context.Background(), "text", "", "")
	require.NoError(t, err)

	assert.Contains(t, seenPrompt, "EMAIL_ADDRESS")
	assert.Contains(t, seenPrompt, "NEVER standalone")
}

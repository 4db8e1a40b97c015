// Package extract implements the ontology-scoped extraction pipeline:
// prompt construction, LLM invocation, response repair, identity and
// provenance stamping, and concurrent batch coordination.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/ontograph/internal/metrics"
	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/raphaelgruber/ontograph/internal/ontology"
	"github.com/raphaelgruber/ontograph/internal/registry"
	"github.com/raphaelgruber/ontograph/internal/tagger"
)

// Generator is the LLM extraction capability: prompt in, raw text out. Its
// internal reasoning is opaque; only this contract matters to the pipeline.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SystemGenerator is implemented by generators that accept a separate system
// message alongside the user prompt. The pipeline prefers this form when the
// generator supports it.
type SystemGenerator interface {
	GenerateWithSystem(ctx context.Context, system, prompt string) (string, error)
}

// Embedder is the sentence-embedding capability.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
	Dimension() int
}

// Options configures a Service.
type Options struct {
	Ontologies *ontology.Registry
	Objects    *registry.Store
	LLM        Generator      // nil means graph extraction is unconfigured
	Embedder   Embedder       // nil means embedding is unconfigured
	Tagger     tagger.Tagger  // nil means candidate extraction is unconfigured
	Metrics    *metrics.Collector
	Logger     *slog.Logger

	// DefaultDatabase is stamped on results when requests omit a scope.
	DefaultDatabase string

	// BatchConcurrency bounds in-flight documents per batch request.
	BatchConcurrency int
}

// Service drives documents through the extraction pipeline.
type Service struct {
	ontologies       *ontology.Registry
	objects          *registry.Store
	llm              Generator
	embedder         Embedder
	tagger           tagger.Tagger
	tracker          *Tracker
	metrics          *metrics.Collector
	logger           *slog.Logger
	defaultDatabase  string
	batchConcurrency int
}

// NewService creates the extraction service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewCollector()
	}
	concurrency := opts.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	db := opts.DefaultDatabase
	if db == "" {
		db = "default"
	}

	return &Service{
		ontologies:       opts.Ontologies,
		objects:          opts.Objects,
		llm:              opts.LLM,
		embedder:         opts.Embedder,
		tagger:           opts.Tagger,
		tracker:          NewTracker(opts.Objects, logger),
		metrics:          collector,
		logger:           logger,
		defaultDatabase:  db,
		batchConcurrency: concurrency,
	}
}

// ExtractGraph runs one document through the full pipeline: resolve ontology,
// build prompt, call the LLM, repair the response, stamp identity and
// provenance, assemble the result.
//
// Malformed LLM output degrades to an empty graph with a diagnostic note;
// only configuration gaps and transport-level LLM failures are fatal.
func (s *Service) ExtractGraph(ctx context.Context, text, ontologyName, database string) (*models.GraphResult, error) {
	cfg := s.ontologies.Resolve(ontologyName)
	if len(cfg.EntityTypes) == 0 {
		return nil, fmt.Errorf("%w: ontology %q not initialized", ErrConfiguration, cfg.Name)
	}
	if s.llm == nil {
		return nil, fmt.Errorf("%w: no LLM capability configured", ErrConfiguration)
	}
	if database == "" {
		database = s.defaultDatabase
	}

	prompt := BuildPrompt(cfg, text)

	start := time.Now()
	raw, err := s.generate(ctx, prompt)
	s.metrics.RecordTiming(metrics.OpLLMExtract, time.Since(start))
	if err != nil {
		s.metrics.RecordFailure(metrics.OpLLMExtract)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	graph, parseErr := parseGraph(raw)
	foldPropertyEntities(&graph, cfg)
	note := fmt.Sprintf("Extracted %d entities and %d relationships using ontology %q (database %q)",
		len(graph.Entities), len(graph.Relationships), cfg.Name, database)
	if parseErr != nil {
		note = fmt.Sprintf("LLM response could not be parsed as a graph: %v. Returning empty graph.", parseErr)
		s.logger.Warn("malformed extraction response", "ontology", cfg.Name, "error", parseErr)
	}

	s.tracker.Stamp(&graph, cfg, models.MethodLLM)

	result := &models.GraphResult{
		RequestID:      uuid.NewString(),
		Entities:       graph.Entities,
		Relationships:  graph.Relationships,
		RefinementInfo: note,
		OntologyUsed:   cfg.Name,
		DatabaseUsed:   database,
		Metadata: models.GraphMetadata{
			TextLength:        len(text),
			EntityCount:       len(graph.Entities),
			RelationshipCount: len(graph.Relationships),
			Timestamp:         time.Now().UTC(),
			Success:           parseErr == nil,
		},
	}

	// Embedding is best-effort enrichment: its absence or failure never
	// fails the extraction.
	if s.embedder != nil {
		if vector, embErr := s.embedOneTimed(ctx, text); embErr == nil {
			result.Embedding = vector
		} else {
			s.logger.Warn("embedding skipped", "error", embErr)
		}
	}

	return result, nil
}

// generate dispatches one model call, splitting out the system message when
// the generator supports it.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if sg, ok := s.llm.(SystemGenerator); ok {
		return sg.GenerateWithSystem(ctx, systemPrompt, prompt)
	}
	return s.llm.Generate(ctx, prompt)
}

// ExtractEntities runs the raw candidate path only. This is the one path
// that populates spans and surrounding context.
func (s *Service) ExtractEntities(ctx context.Context, text, ontologyName string) ([]models.Entity, error) {
	if s.tagger == nil {
		return nil, fmt.Errorf("%w: no tagger configured", ErrConfiguration)
	}
	// Resolved for its side effects only (fallback warnings); the raw path
	// reports whatever the tagger found regardless of ontology.
	s.ontologies.Resolve(ontologyName)

	start := time.Now()
	entities, err := s.tagger.Extract(ctx, text)
	s.metrics.RecordTiming(metrics.OpTagger, time.Since(start))
	if err != nil {
		s.metrics.RecordFailure(metrics.OpTagger)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	return entities, nil
}

// RefineEntities extracts raw candidates and refines them with the LLM into
// ontology-typed entities. LLM or parse failures degrade to the raw
// candidates with a diagnostic note.
func (s *Service) RefineEntities(ctx context.Context, text, ontologyName string) (*models.RefinedResult, error) {
	raw, err := s.ExtractEntities(ctx, text, ontologyName)
	if err != nil {
		return nil, err
	}

	cfg := s.ontologies.Resolve(ontologyName)
	result := &models.RefinedResult{
		RawEntities:  raw,
		OntologyUsed: cfg.Name,
	}

	if s.llm == nil {
		result.RefinedEntities = raw
		result.RefinementInfo = "No LLM capability configured; returning raw candidates."
		return result, nil
	}

	prompt := BuildRefinePrompt(cfg, text, raw)

	start := time.Now()
	rawResponse, err := s.generate(ctx, prompt)
	s.metrics.RecordTiming(metrics.OpLLMExtract, time.Since(start))
	if err != nil {
		s.metrics.RecordFailure(metrics.OpLLMExtract)
		result.RefinedEntities = raw
		result.RefinementInfo = fmt.Sprintf("LLM refinement failed (%v); returning raw candidates.", err)
		return result, nil
	}

	graph, parseErr := parseGraph(rawResponse)
	if parseErr != nil {
		result.RefinedEntities = raw
		result.RefinementInfo = fmt.Sprintf("Refinement response could not be parsed (%v); returning raw candidates.", parseErr)
		return result, nil
	}
	foldPropertyEntities(&graph, cfg)

	result.RefinedEntities = graph.Entities
	result.RefinementInfo = fmt.Sprintf("Refined %d raw candidates into %d entities using ontology %q",
		len(raw), len(graph.Entities), cfg.Name)
	return result, nil
}

// Embed generates embedding vectors for the given texts.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding model configured", ErrConfiguration)
	}
	vectors, err := s.embedBatchTimed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return vectors, nil
}

func (s *Service) embedBatchTimed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	s.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
	if err != nil {
		s.metrics.RecordFailure(metrics.OpEmbedding)
	}
	return vectors, err
}

func (s *Service) embedOneTimed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vector, err := s.embedder.Embed(ctx, text)
	s.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
	if err != nil {
		s.metrics.RecordFailure(metrics.OpEmbedding)
	}
	return vector, err
}

// EmbedderInfo returns the embedding model name and dimension, or ok=false
// when no embedder is configured.
func (s *Service) EmbedderInfo() (model string, dimension int, ok bool) {
	if s.embedder == nil {
		return "", 0, false
	}
	return s.embedder.Model(), s.embedder.Dimension(), true
}

// IsConfigurationError reports whether err is client-correctable.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

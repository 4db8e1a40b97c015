package extract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/ontograph/internal/metrics"
	"github.com/raphaelgruber/ontograph/internal/models"
	"golang.org/x/sync/semaphore"
)

// ExtractBatch fans the texts out to independent document pipelines, at most
// batchConcurrency in flight at once, and reassembles results in input
// order. A failing document never aborts the batch: its slot becomes a
// placeholder carrying an empty graph and a diagnostic note.
func (s *Service) ExtractBatch(ctx context.Context, texts []string, ontologyName, database string) []*models.GraphResult {
	start := time.Now()
	defer func() {
		s.metrics.RecordTiming(metrics.OpBatch, time.Since(start))
	}()

	results := make([]*models.GraphResult, len(texts))
	sem := semaphore.NewWeighted(int64(s.batchConcurrency))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("document pipeline panicked", "index", i, "panic", r)
					results[i] = s.placeholderResult(text, ontologyName, database,
						fmt.Sprintf("extraction pipeline panicked: %v", r))
				}
			}()

			// Acquire fails only when the outer request is cancelled;
			// unstarted documents are abandoned, not silently continued.
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = s.placeholderResult(text, ontologyName, database,
					fmt.Sprintf("extraction cancelled before start: %v", err))
				return
			}
			defer sem.Release(1)

			result, err := s.ExtractGraph(ctx, text, ontologyName, database)
			if err != nil {
				s.logger.Warn("batch document failed", "index", i, "error", err)
				results[i] = s.placeholderResult(text, ontologyName, database,
					fmt.Sprintf("extraction failed: %v", err))
				return
			}
			results[i] = result
		}(i, text)
	}
	wg.Wait()

	return results
}

// placeholderResult fills a failed batch slot so the batch always returns
// one result per input text.
func (s *Service) placeholderResult(text, ontologyName, database, diagnostic string) *models.GraphResult {
	if ontologyName == "" {
		ontologyName = s.ontologies.Resolve("").Name
	}
	if database == "" {
		database = s.defaultDatabase
	}
	return &models.GraphResult{
		RequestID:      uuid.NewString(),
		Entities:       []models.Entity{},
		Relationships:  []models.Relationship{},
		RefinementInfo: diagnostic,
		OntologyUsed:   ontologyName,
		DatabaseUsed:   database,
		Metadata: models.GraphMetadata{
			TextLength: len(text),
			Timestamp:  time.Now().UTC(),
			Success:    false,
		},
	}
}

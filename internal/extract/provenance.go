package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/raphaelgruber/ontograph/internal/ontology"
	"github.com/raphaelgruber/ontograph/internal/registry"
)

// idSuffixLen is the length of the random hex suffix appended to the
// deterministic id prefix. The suffix makes ids session-unique: re-extracting
// identical text yields different ids.
const idSuffixLen = 8

// Tracker assigns identifiers to extracted objects and writes one
// provenance record per object into the object store. Writes are
// append-only; records are never updated or deleted.
type Tracker struct {
	store  *registry.Store
	logger *slog.Logger
}

// NewTracker creates a tracker writing into store.
func NewTracker(store *registry.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, logger: logger}
}

// Stamp guarantees every entity and relationship in the graph carries an id
// and records provenance for each. Objects that already have ids keep them.
func (t *Tracker) Stamp(graph *models.Graph, cfg ontology.Config, method string) {
	now := time.Now().UTC()

	for i := range graph.Entities {
		e := &graph.Entities[i]
		if e.ID == "" {
			e.ID = newObjectID(e.Type, e.Value)
		}
		t.store.Put(e.ID, models.ProvenanceRecord{
			ID:    e.ID,
			Kind:  models.ObjectKindEntity,
			Type:  e.Type,
			Value: e.Value,
			GraphData: models.GraphData{
				Description:    describe(cfg, e.Type, models.ObjectKindEntity),
				Confidence:     e.Confidence,
				Properties:     e.Properties,
				Method:         method,
				CreatedAt:      now,
				SourceOntology: cfg.Name,
			},
			CreatedAt: now,
		})
	}

	for i := range graph.Relationships {
		r := &graph.Relationships[i]
		if r.ID == "" {
			r.ID = newObjectID(r.Type, r.Source+"_"+r.Target)
		}
		t.store.Put(r.ID, models.ProvenanceRecord{
			ID:     r.ID,
			Kind:   models.ObjectKindRelationship,
			Type:   r.Type,
			Source: r.Source,
			Target: r.Target,
			GraphData: models.GraphData{
				Description:    describe(cfg, r.Type, models.ObjectKindRelationship),
				Confidence:     r.Confidence,
				Method:         method,
				CreatedAt:      now,
				SourceOntology: cfg.Name,
			},
			CreatedAt: now,
		})
	}

	t.logger.Debug("provenance stamped",
		"ontology", cfg.Name,
		"entities", len(graph.Entities),
		"relationships", len(graph.Relationships))
}

// newObjectID builds "<type>_<value>_<suffix>" with the type and value
// lower-cased and spaces/hyphens normalized to underscores.
func newObjectID(typ, value string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
	return models.IDPrefix(typ, value) + "_" + suffix
}

// describe resolves the provenance description for a type from the ontology,
// falling back to a generic template.
func describe(cfg ontology.Config, typ string, kind models.ObjectKind) string {
	if desc := cfg.Description(typ); desc != "" {
		return desc
	}
	if kind == models.ObjectKindRelationship {
		return fmt.Sprintf("Relationship of type %s", typ)
	}
	return fmt.Sprintf("Entity of type %s", typ)
}

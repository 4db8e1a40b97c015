package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/raphaelgruber/ontograph/internal/ontology"
)

// defaultConfidence is assigned wherever the model omitted a score.
const defaultConfidence = 0.9

// typeUnknown marks entities for which the model provided no usable type.
const typeUnknown = "Unknown"

// looseEntity tolerates the shapes models actually produce: "type" or a
// "types" list, optional confidence, ad-hoc properties.
type looseEntity struct {
	Value      string         `json:"value"`
	Type       string         `json:"type"`
	Types      []string       `json:"types"`
	Confidence *float64       `json:"confidence"`
	Properties map[string]any `json:"properties"`
}

type looseRelationship struct {
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Type        string   `json:"type"`
	Confidence  *float64 `json:"confidence"`
	Explanation string   `json:"explanation"`
}

type looseGraph struct {
	Entities      []looseEntity       `json:"entities"`
	Relationships []looseRelationship `json:"relationships"`
}

// parseGraph parses raw LLM output into a normalized graph, applying the
// repair pass in one place rather than scattering defensive checks. A
// non-nil error always wraps ErrMalformedResponse; callers recover it into
// an empty graph.
func parseGraph(raw string) (models.Graph, error) {
	payload := stripFences(raw)

	var loose looseGraph
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&loose); err != nil {
		return models.EmptyGraph(), fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if loose.Entities == nil && loose.Relationships == nil {
		return models.EmptyGraph(), fmt.Errorf("%w: no entities or relationships arrays", ErrMalformedResponse)
	}

	graph := models.EmptyGraph()
	for _, le := range loose.Entities {
		graph.Entities = append(graph.Entities, repairEntity(le))
	}
	for _, lr := range loose.Relationships {
		graph.Relationships = append(graph.Relationships, repairRelationship(lr))
	}
	return graph, nil
}

func repairEntity(le looseEntity) models.Entity {
	typ := le.Type
	if typ == "" && len(le.Types) > 0 {
		typ = le.Types[0]
	}
	if typ == "" {
		typ = typeUnknown
	}

	confidence := defaultConfidence
	if le.Confidence != nil {
		confidence = *le.Confidence
	}

	return models.Entity{
		Type:       typ,
		Value:      le.Value,
		Confidence: confidence,
		Properties: le.Properties,
	}
}

func repairRelationship(lr looseRelationship) models.Relationship {
	confidence := defaultConfidence
	if lr.Confidence != nil {
		confidence = *lr.Confidence
	}

	return models.Relationship{
		Source:      lr.Source,
		Target:      lr.Target,
		Type:        lr.Type,
		Confidence:  confidence,
		Explanation: lr.Explanation,
	}
}

// foldPropertyEntities enforces the folding rule after parsing: property
// types never appear as standalone nodes. An entity of a property type is
// folded into the properties of the nearest core entity (the preceding one,
// or the first following one when none precedes it), keyed by its normalized
// type name. Relationships referencing a folded value are dropped. A graph
// with no core entities at all is left unchanged.
func foldPropertyEntities(graph *models.Graph, cfg ontology.Config) {
	if len(cfg.PropertyTypes) == 0 || len(graph.Entities) == 0 {
		return
	}

	hasCore := false
	for _, e := range graph.Entities {
		if !cfg.IsPropertyType(e.Type) {
			hasCore = true
			break
		}
	}
	if !hasCore {
		return
	}

	folded := make(map[string]struct{})
	attach := func(owner *models.Entity, prop models.Entity) {
		if owner.Properties == nil {
			owner.Properties = map[string]any{}
		}
		key := models.NormalizeToken(prop.Type)
		if _, exists := owner.Properties[key]; !exists {
			owner.Properties[key] = prop.Value
		}
		folded[prop.Value] = struct{}{}
	}

	kept := make([]models.Entity, 0, len(graph.Entities))
	var pending []models.Entity
	for _, e := range graph.Entities {
		if cfg.IsPropertyType(e.Type) {
			if len(kept) > 0 {
				attach(&kept[len(kept)-1], e)
			} else {
				pending = append(pending, e)
			}
			continue
		}
		kept = append(kept, e)
		for _, p := range pending {
			attach(&kept[len(kept)-1], p)
		}
		pending = nil
	}
	graph.Entities = kept

	if len(folded) == 0 {
		return
	}
	rels := graph.Relationships[:0]
	for _, r := range graph.Relationships {
		if _, ok := folded[r.Source]; ok {
			continue
		}
		if _, ok := folded[r.Target]; ok {
			continue
		}
		rels = append(rels, r)
	}
	graph.Relationships = rels
}

// stripFences removes markdown code fences and any prose around the first
// top-level JSON object. Models frequently wrap JSON despite instructions.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndex(s, "}"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}
	return s
}

// Package models defines the graph extraction data model shared across
// the ontology registry, the extraction pipeline and the HTTP surface.
package models

import "time"

// Entity is a typed value extracted from text.
//
// Type is one of the resolved ontology's core entity types, or an inferred
// type carrying the "Inferred" suffix when nothing matched. Value is always
// the literal text span, never the type name. Start/End/Label/Context are
// populated only by the raw-candidate tagger path, not by the LLM path.
type Entity struct {
	ID         string         `json:"id,omitempty"`
	Type       string         `json:"type"`
	Value      string         `json:"value"`
	Confidence float64        `json:"confidence"`
	Properties map[string]any `json:"properties,omitempty"`
	Start      *int           `json:"start,omitempty"`
	End        *int           `json:"end,omitempty"`
	Label      string         `json:"label,omitempty"`
	Context    string         `json:"context,omitempty"`
}

// Relationship connects two entities by their literal values.
type Relationship struct {
	ID          string  `json:"id,omitempty"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation,omitempty"`
}

// Graph is the normalized output of one extraction pass.
type Graph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// EmptyGraph returns a graph with non-nil, empty slices so that JSON
// encoding always yields [] rather than null.
func EmptyGraph() Graph {
	return Graph{Entities: []Entity{}, Relationships: []Relationship{}}
}

// GraphMetadata summarizes one extraction for clients and debugging.
type GraphMetadata struct {
	TextLength        int       `json:"text_length"`
	EntityCount       int       `json:"entity_count"`
	RelationshipCount int       `json:"relationship_count"`
	Timestamp         time.Time `json:"timestamp"`
	Success           bool      `json:"success"`
}

// GraphResult is the full response for a single document extraction.
type GraphResult struct {
	RequestID      string         `json:"request_id"`
	Entities       []Entity       `json:"entities"`
	Relationships  []Relationship `json:"relationships"`
	RefinementInfo string         `json:"refinement_info"`
	Embedding      []float32      `json:"embedding,omitempty"`
	OntologyUsed   string         `json:"ontology_used"`
	DatabaseUsed   string         `json:"database_used,omitempty"`
	Metadata       GraphMetadata  `json:"metadata"`
}

// RefinedResult pairs raw tagger candidates with their LLM refinement.
type RefinedResult struct {
	RawEntities     []Entity `json:"raw_entities"`
	RefinedEntities []Entity `json:"refined_entities"`
	RefinementInfo  string   `json:"refinement_info"`
	OntologyUsed    string   `json:"ontology_used"`
}

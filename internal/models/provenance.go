package models

import "time"

// ObjectKind distinguishes entity records from relationship records.
type ObjectKind string

const (
	ObjectKindEntity       ObjectKind = "entity"
	ObjectKindRelationship ObjectKind = "relationship"
)

// Extraction method tags recorded in provenance.
const (
	MethodLLM    = "llm"
	MethodTagger = "tagger"
)

// GraphData is the graph-facing projection stored alongside each object:
// everything a consumer needs to render the object as a node or edge.
type GraphData struct {
	Description    string         `json:"description"`
	Confidence     float64        `json:"confidence"`
	Properties     map[string]any `json:"properties,omitempty"`
	Method         string         `json:"extraction_method"`
	CreatedAt      time.Time      `json:"created_at"`
	SourceOntology string         `json:"source_ontology"`
}

// ProvenanceRecord describes how and when an extracted object was produced.
// Records are created once at identity-assignment time and never mutated.
type ProvenanceRecord struct {
	ID        string     `json:"id"`
	Kind      ObjectKind `json:"kind"`
	Type      string     `json:"type"`
	Value     string     `json:"value,omitempty"`
	Source    string     `json:"source,omitempty"`
	Target    string     `json:"target,omitempty"`
	GraphData GraphData  `json:"graph_data"`
	CreatedAt time.Time  `json:"created_at"`
}

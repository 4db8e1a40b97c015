// Package ontology maintains named ontology configurations that constrain
// graph extraction: allowed entity types, relationship types and the subset
// of property-like types that must never become standalone nodes.
package ontology

import (
	"encoding/json"
	"fmt"
)

// DefaultName is the configuration used when a request names no ontology.
const DefaultName = "default"

// Pattern is a compact relationship triple: source type, relationship type,
// target type. It serializes as a three-element array in both JSON and YAML,
// matching the compact table form accepted by the registration endpoint.
type Pattern struct {
	Source string
	Type   string
	Target string
}

// MarshalJSON encodes the pattern as ["source", "REL_TYPE", "target"].
func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{p.Source, p.Type, p.Target})
}

// UnmarshalJSON decodes a three-element array into the pattern.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	var triple []string
	if err := json.Unmarshal(data, &triple); err != nil {
		return fmt.Errorf("pattern must be an array: %w", err)
	}
	if len(triple) != 3 {
		return fmt.Errorf("pattern must have exactly 3 elements, got %d", len(triple))
	}
	p.Source, p.Type, p.Target = triple[0], triple[1], triple[2]
	return nil
}

// UnmarshalYAML decodes a three-element sequence into the pattern.
func (p *Pattern) UnmarshalYAML(unmarshal func(any) error) error {
	var triple []string
	if err := unmarshal(&triple); err != nil {
		return fmt.Errorf("pattern must be a sequence: %w", err)
	}
	if len(triple) != 3 {
		return fmt.Errorf("pattern must have exactly 3 elements, got %d", len(triple))
	}
	p.Source, p.Type, p.Target = triple[0], triple[1], triple[2]
	return nil
}

// Config is one named ontology configuration. Configurations are registered
// wholesale and overwritten wholesale; there is no partial patching.
type Config struct {
	Name              string            `json:"name"`
	EntityTypes       []string          `json:"entity_types"`
	RelationshipTypes []string          `json:"relationship_types"`
	PropertyTypes     []string          `json:"property_types,omitempty"`
	Descriptions      map[string]string `json:"descriptions,omitempty"`
	Patterns          []Pattern         `json:"patterns,omitempty"`
}

// CoreEntityTypes returns the entity types that may become standalone nodes:
// every entity type that is not property-like. Order is preserved.
func (c Config) CoreEntityTypes() []string {
	props := make(map[string]struct{}, len(c.PropertyTypes))
	for _, p := range c.PropertyTypes {
		props[p] = struct{}{}
	}
	core := make([]string, 0, len(c.EntityTypes))
	for _, t := range c.EntityTypes {
		if _, ok := props[t]; !ok {
			core = append(core, t)
		}
	}
	return core
}

// IsPropertyType reports whether t is marked property-like.
func (c Config) IsPropertyType(t string) bool {
	for _, p := range c.PropertyTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Description returns the configured description for a type, or "".
func (c Config) Description(t string) string {
	return c.Descriptions[t]
}

// Summary is the listing projection of a configuration.
type Summary struct {
	EntityTypes       int `json:"entity_types"`
	RelationshipTypes int `json:"relationship_types"`
	PropertyTypes     int `json:"property_types"`
	Patterns          int `json:"patterns"`
}

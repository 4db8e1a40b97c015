package ontology

import (
	"log/slog"
	"sync"
)

// Registry stores named ontology configurations. It is safe for concurrent
// use: document pipelines resolve configurations while registrations arrive.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		configs: make(map[string]Config),
		logger:  logger,
	}
}

// RegisterInput is the registration payload. Either the full form (explicit
// relationship types) or the compact form (relationship types projected from
// the pattern triples) may be used.
type RegisterInput struct {
	Name              string            `json:"name"`
	EntityTypes       []string          `json:"entity_types"`
	RelationshipTypes []string          `json:"relationship_types"`
	PropertyTypes     []string          `json:"property_types"`
	Descriptions      map[string]string `json:"descriptions"`
	Patterns          []Pattern         `json:"patterns"`
}

// Register creates or wholesale-overwrites the configuration under
// input.Name (DefaultName when empty). Last write wins. Overwriting does not
// touch provenance records produced under the previous configuration.
func (r *Registry) Register(input RegisterInput) Config {
	name := input.Name
	if name == "" {
		name = DefaultName
	}

	relTypes := input.RelationshipTypes
	if len(relTypes) == 0 && len(input.Patterns) > 0 {
		relTypes = projectRelationshipTypes(input.Patterns)
	}

	cfg := Config{
		Name:              name,
		EntityTypes:       append([]string(nil), input.EntityTypes...),
		RelationshipTypes: append([]string(nil), relTypes...),
		PropertyTypes:     append([]string(nil), input.PropertyTypes...),
		Descriptions:      input.Descriptions,
		Patterns:          append([]Pattern(nil), input.Patterns...),
	}

	// Property types must be a subset of entity types. Unknown property
	// types are appended rather than rejected so that registration, like
	// resolution, degrades instead of hard-failing.
	cfg.EntityTypes = ensureContains(cfg.EntityTypes, cfg.PropertyTypes)

	r.mu.Lock()
	_, replaced := r.configs[name]
	r.configs[name] = cfg
	r.mu.Unlock()

	r.logger.Info("ontology registered",
		"name", name,
		"entity_types", len(cfg.EntityTypes),
		"relationship_types", len(cfg.RelationshipTypes),
		"property_types", len(cfg.PropertyTypes),
		"replaced", replaced)

	return cfg
}

// Resolve returns the configuration for name, falling back to DefaultName
// and finally to an empty legacy configuration. It never fails: extraction
// should degrade, not hard-fail, on ontology-name typos from callers.
func (r *Registry) Resolve(name string) Config {
	if name == "" {
		name = DefaultName
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if cfg, ok := r.configs[name]; ok {
		return cfg
	}
	if cfg, ok := r.configs[DefaultName]; ok {
		r.logger.Warn("ontology not found, using default", "requested", name)
		return cfg
	}

	r.logger.Warn("no ontologies registered, using legacy fallback", "requested", name)
	return Config{Name: name}
}

// List returns the registered ontology names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	return names
}

// Summaries returns a per-name summary for the listing endpoint.
func (r *Registry) Summaries() map[string]Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Summary, len(r.configs))
	for name, cfg := range r.configs {
		out[name] = Summary{
			EntityTypes:       len(cfg.EntityTypes),
			RelationshipTypes: len(cfg.RelationshipTypes),
			PropertyTypes:     len(cfg.PropertyTypes),
			Patterns:          len(cfg.Patterns),
		}
	}
	return out
}

// projectRelationshipTypes extracts the relationship-type column from the
// compact pattern table, de-duplicated, first occurrence wins.
func projectRelationshipTypes(patterns []Pattern) []string {
	seen := make(map[string]struct{}, len(patterns))
	types := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if _, ok := seen[p.Type]; ok {
			continue
		}
		seen[p.Type] = struct{}{}
		types = append(types, p.Type)
	}
	return types
}

// ensureContains appends any member of extra missing from base.
func ensureContains(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, t := range base {
		seen[t] = struct{}{}
	}
	for _, t := range extra {
		if _, ok := seen[t]; !ok {
			base = append(base, t)
			seen[t] = struct{}{}
		}
	}
	return base
}

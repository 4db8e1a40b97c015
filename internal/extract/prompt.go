package extract

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/raphaelgruber/ontograph/internal/ontology"
)

// Naming conventions for types the model invents when nothing in the
// ontology matches.
const (
	InferredEntitySuffix   = "Inferred"
	InferredRelationSuffix = "_INFERRED"
)

// systemPrompt frames every model call for generators that take a separate
// system message. Task-specific instructions stay in the user prompt.
const systemPrompt = "You are a precise information extraction engine. Respond with exactly one JSON object and nothing else."

// BuildPrompt renders the extraction instructions for one document,
// constrained to the given ontology. Pure function of (cfg, text); the LLM
// call is the only non-deterministic step in the pipeline.
func BuildPrompt(cfg ontology.Config, text string) string {
	var b strings.Builder

	b.WriteString("You are a knowledge graph extraction specialist. Extract entities and relationships from the text below, using ONLY the allowed types.\n\n")

	b.WriteString("Allowed entity types:\n")
	for _, t := range cfg.CoreEntityTypes() {
		if desc := cfg.Description(t); desc != "" {
			fmt.Fprintf(&b, "- %s: %s\n", t, desc)
		} else {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	if len(cfg.RelationshipTypes) > 0 {
		b.WriteString("\nAllowed relationship types:\n")
		for _, t := range cfg.RelationshipTypes {
			if desc := cfg.Description(t); desc != "" {
				fmt.Fprintf(&b, "- %s: %s\n", t, desc)
			} else {
				fmt.Fprintf(&b, "- %s\n", t)
			}
		}
	}

	if len(cfg.Patterns) > 0 {
		b.WriteString("\nKnown relationship patterns (source type, relationship, target type):\n")
		for _, p := range cfg.Patterns {
			fmt.Fprintf(&b, "- %s %s %s\n", p.Source, p.Type, p.Target)
		}
	}

	if len(cfg.PropertyTypes) > 0 {
		b.WriteString("\nProperty types (NEVER standalone entities):\n")
		for _, t := range cfg.PropertyTypes {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		b.WriteString("Values of these types must be folded into the \"properties\" object of the most relevant entity above. For example, an email address belongs in the properties of the person it identifies, not in the entities list.\n")
	}

	b.WriteString("\nRules:\n")
	b.WriteString("1. An entity's \"value\" is the literal text span from the input, never the type name.\n")
	fmt.Fprintf(&b, "2. If no entity type fits, invent one ending in \"%s\" (e.g. \"Product%s\").\n", InferredEntitySuffix, InferredEntitySuffix)
	fmt.Fprintf(&b, "3. If no relationship type fits, invent one in UPPER_SNAKE_CASE ending in \"%s\" (e.g. \"ACQUIRED%s\").\n", InferredRelationSuffix, InferredRelationSuffix)
	b.WriteString("4. Every relationship's \"source\" and \"target\" must be the value of an entity in your output.\n")
	b.WriteString("5. Respond with JSON only, no prose and no markdown fences.\n")

	b.WriteString("\nOutput shape:\n")
	b.WriteString(`{"entities": [{"value": "...", "type": "...", "properties": {}}], "relationships": [{"source": "...", "target": "...", "type": "..."}]}`)
	b.WriteString("\n\nExample: for the text \"John Smith works at Acme Corp (john@acme.com)\" a correct output is:\n")
	b.WriteString(`{"entities": [{"value": "John Smith", "type": "PERSON_NAME", "properties": {"email": "john@acme.com"}}, {"value": "Acme Corp", "type": "COMPANY_NAME", "properties": {}}], "relationships": [{"source": "John Smith", "target": "Acme Corp", "type": "WORKS_AT"}]}`)

	b.WriteString("\n\nText:\n")
	b.WriteString(text)
	b.WriteString("\n\nJSON:")

	return b.String()
}

// BuildRefinePrompt renders the instructions for refining raw tagger
// candidates into ontology-typed entities.
func BuildRefinePrompt(cfg ontology.Config, text string, raw []models.Entity) string {
	var b strings.Builder

	b.WriteString("You are an entity refinement specialist. A rough tagger produced candidate entities for the text below. Correct their types, merge duplicates, fold property-like values into the owning entity's \"properties\", and drop false positives.\n\n")

	b.WriteString("Allowed entity types:\n")
	for _, t := range cfg.CoreEntityTypes() {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	if len(cfg.PropertyTypes) > 0 {
		b.WriteString("\nProperty types (never standalone, fold into properties):\n")
		for _, t := range cfg.PropertyTypes {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	b.WriteString("\nCandidates:\n")
	for _, e := range raw {
		fmt.Fprintf(&b, "- %q (%s)\n", e.Value, e.Type)
	}

	b.WriteString("\nRespond with JSON only: {\"entities\": [{\"value\": \"...\", \"type\": \"...\", \"properties\": {}}]}\n")
	b.WriteString("\nText:\n")
	b.WriteString(text)
	b.WriteString("\n\nJSON:")

	return b.String()
}

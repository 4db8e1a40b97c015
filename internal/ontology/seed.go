package ontology

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of an ontology seed file:
//
//	ontologies:
//	  - name: financial
//	    entity_types: [PERSON_NAME, COMPANY_NAME, EMAIL_ADDRESS]
//	    property_types: [EMAIL_ADDRESS]
//	    patterns:
//	      - [PERSON_NAME, WORKS_AT, COMPANY_NAME]
type seedFile struct {
	Ontologies []seedEntry `yaml:"ontologies"`
}

type seedEntry struct {
	Name              string            `yaml:"name"`
	EntityTypes       []string          `yaml:"entity_types"`
	RelationshipTypes []string          `yaml:"relationship_types"`
	PropertyTypes     []string          `yaml:"property_types"`
	Descriptions      map[string]string `yaml:"descriptions"`
	Patterns          []Pattern         `yaml:"patterns"`
}

// LoadSeedFile registers every ontology from a YAML seed file into the
// registry. Missing files are an error; callers decide whether the file is
// optional.
func (r *Registry) LoadSeedFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	for _, entry := range seed.Ontologies {
		r.Register(RegisterInput{
			Name:              entry.Name,
			EntityTypes:       entry.EntityTypes,
			RelationshipTypes: entry.RelationshipTypes,
			PropertyTypes:     entry.PropertyTypes,
			Descriptions:      entry.Descriptions,
			Patterns:          entry.Patterns,
		})
	}
	return len(seed.Ontologies), nil
}

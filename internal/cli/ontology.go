package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/raphaelgruber/ontograph/internal/ontology"
	"github.com/spf13/cobra"
)

var ontologyCmd = &cobra.Command{
	Use:   "ontology",
	Short: "Manage ontology configurations",
}

var ontologyRegisterCmd = &cobra.Command{
	Use:   "register <file.json>",
	Short: "Register an ontology from a JSON file",
	Long: `Register (or wholesale replace) an ontology configuration.

The file holds one configuration:

  {
    "name": "financial",
    "entity_types": ["PERSON_NAME", "COMPANY_NAME", "MONETARY_AMOUNT"],
    "property_types": ["MONETARY_AMOUNT"],
    "patterns": [["PERSON_NAME", "WORKS_AT", "COMPANY_NAME"]]
  }

Relationship types may be listed explicitly or projected from patterns.`,
	Args: cobra.ExactArgs(1),
	RunE: runOntologyRegister,
}

var ontologyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered ontologies",
	Args:  cobra.NoArgs,
	RunE:  runOntologyList,
}

func init() {
	ontologyCmd.AddCommand(ontologyRegisterCmd)
	ontologyCmd.AddCommand(ontologyListCmd)
	rootCmd.AddCommand(ontologyCmd)
}

func runOntologyRegister(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read ontology file: %w", err)
	}

	var input ontology.RegisterInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parse ontology file: %w", err)
	}

	if err := apiClient.RegisterOntology(context.Background(), input); err != nil {
		return fmt.Errorf("register ontology: %w", err)
	}

	name := input.Name
	if name == "" {
		name = "default"
	}
	fmt.Printf("Registered ontology %q (%d entity types)\n", name, len(input.EntityTypes))
	return nil
}

func runOntologyList(cmd *cobra.Command, args []string) error {
	resp, err := apiClient.ListOntologies(context.Background())
	if err != nil {
		return fmt.Errorf("list ontologies: %w", err)
	}

	if resp.Count == 0 {
		fmt.Println("No ontologies registered.")
		return nil
	}

	names := resp.Ontologies
	sort.Strings(names)

	fmt.Printf("%-20s %-8s %-8s %-8s %s\n", "NAME", "ENTITY", "REL", "PROP", "PATTERNS")
	for _, name := range names {
		d := resp.Details[name]
		fmt.Printf("%-20s %-8d %-8d %-8d %d\n",
			name, d.EntityTypes, d.RelationshipTypes, d.PropertyTypes, d.Patterns)
	}
	return nil
}

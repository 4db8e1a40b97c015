package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/spf13/cobra"
)

var (
	extractOntology string
	extractDatabase string
	extractJSON     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <text>",
	Short: "Extract a knowledge graph from text",
	Long: `Extract entities and relationships from text, constrained by an ontology.

Examples:
  ontograph extract "John Smith works at Acme Corp"
  ontograph extract "Dr. Jones prescribed aspirin" --ontology medical
  ontograph extract "..." --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOntology, "ontology", "o", "", "ontology to constrain extraction")
	extractCmd.Flags().StringVarP(&extractDatabase, "database", "d", "", "database scope stamped on the result")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the raw JSON result")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := apiClient.ExtractGraph(ctx, args[0], extractOntology, extractDatabase)
	if err != nil {
		return fmt.Errorf("extract graph: %w", err)
	}

	if extractJSON {
		return printJSON(result)
	}

	printGraphResult(result)
	return nil
}

func printGraphResult(result *models.GraphResult) {
	fmt.Printf("Ontology: %s\n", result.OntologyUsed)
	if !result.Metadata.Success {
		fmt.Println(errText.Render("Warning: " + result.RefinementInfo))
	}

	fmt.Println()
	fmt.Println(heading.Render(fmt.Sprintf("Entities (%d):", len(result.Entities))))
	for _, e := range result.Entities {
		fmt.Printf("  %s [%s] (%.2f)\n", e.Value, e.Type, e.Confidence)
		if verbose && e.ID != "" {
			fmt.Printf("    %s\n", hint.Render("id: "+e.ID))
		}
	}

	fmt.Println()
	fmt.Println(heading.Render(fmt.Sprintf("Relationships (%d):", len(result.Relationships))))
	for _, r := range result.Relationships {
		fmt.Printf("  %s -[%s]-> %s (%.2f)\n", r.Source, r.Type, r.Target, r.Confidence)
		if verbose && r.Explanation != "" {
			fmt.Printf("    %s\n", hint.Render(r.Explanation))
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

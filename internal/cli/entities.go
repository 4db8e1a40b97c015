package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	entitiesOntology string
	entitiesJSON     bool
)

var entitiesCmd = &cobra.Command{
	Use:   "entities <text>",
	Short: "Extract raw entity candidates without LLM refinement",
	Long: `Extract raw entity candidates using the configured tagger only.

This is the fast path: no LLM call, and candidates carry character spans
and surrounding context.

Examples:
  ontograph entities "Invoice for $5,000.00 due to john@acme.com"`,
	Args: cobra.ExactArgs(1),
	RunE: runEntities,
}

func init() {
	entitiesCmd.Flags().StringVarP(&entitiesOntology, "ontology", "o", "", "ontology scope")
	entitiesCmd.Flags().BoolVar(&entitiesJSON, "json", false, "print the raw JSON result")
	rootCmd.AddCommand(entitiesCmd)
}

func runEntities(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	resp, err := apiClient.ExtractEntities(ctx, args[0], entitiesOntology)
	if err != nil {
		return fmt.Errorf("extract entities: %w", err)
	}

	if entitiesJSON {
		return printJSON(resp)
	}

	if resp.Count == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	fmt.Printf("Found %d candidates:\n", resp.Count)
	for _, e := range resp.Entities {
		span := ""
		if e.Start != nil && e.End != nil {
			span = fmt.Sprintf(" @%d-%d", *e.Start, *e.End)
		}
		fmt.Printf("  %s [%s]%s (%.2f)\n", e.Value, e.Type, span, e.Confidence)
		if verbose && e.Context != "" {
			fmt.Printf("    %s\n", hint.Render("..."+e.Context+"..."))
		}
	}
	return nil
}

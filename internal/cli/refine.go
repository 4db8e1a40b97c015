package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	refineOntology string
	refineJSON     bool
)

var refineCmd = &cobra.Command{
	Use:   "refine <text>",
	Short: "Extract raw candidates and refine them with the LLM",
	Long: `Run the two-stage entity path: the tagger finds raw candidates, then
the LLM maps them onto ontology types and folds property values in.

Examples:
  ontograph refine "Contact John Smith at john@acme.com" --ontology default`,
	Args: cobra.ExactArgs(1),
	RunE: runRefine,
}

func init() {
	refineCmd.Flags().StringVarP(&refineOntology, "ontology", "o", "", "ontology to refine against")
	refineCmd.Flags().BoolVar(&refineJSON, "json", false, "print the raw JSON result")
	rootCmd.AddCommand(refineCmd)
}

func runRefine(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := apiClient.RefineEntities(ctx, args[0], refineOntology)
	if err != nil {
		return fmt.Errorf("refine entities: %w", err)
	}

	if refineJSON {
		return printJSON(result)
	}

	fmt.Printf("Raw candidates: %d\n", len(result.RawEntities))
	for _, e := range result.RawEntities {
		fmt.Printf("  %s [%s]\n", e.Value, e.Type)
	}

	fmt.Printf("\nRefined entities: %d\n", len(result.RefinedEntities))
	for _, e := range result.RefinedEntities {
		fmt.Printf("  %s [%s] (%.2f)\n", e.Value, e.Type, e.Confidence)
		for k, v := range e.Properties {
			fmt.Printf("    %s: %v\n", k, v)
		}
	}

	if verbose {
		fmt.Printf("\n%s\n", hint.Render(result.RefinementInfo))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/spf13/cobra"
)

var (
	objectsLimit int

	searchType  string
	searchValue string
	searchLimit int
)

var objectsCmd = &cobra.Command{
	Use:   "objects [object-id]",
	Short: "List stored objects or inspect one by id",
	Long: `List provenance records in insertion order, or show one record.

Examples:
  ontograph objects                     # List all objects
  ontograph objects --limit 20
  ontograph objects person_name_john_smith_1a2b3c4d`,
	Args: cobra.MaximumNArgs(1),
	RunE: runObjects,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored objects by type and value",
	Long: `Search provenance records. Type matching is exact (case-insensitive);
value matching is a substring over entity values and relationship endpoints.

Examples:
  ontograph search --type PERSON_NAME
  ontograph search --value acme --limit 10`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	objectsCmd.Flags().IntVarP(&objectsLimit, "limit", "n", 0, "max objects to list (0 = all)")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "filter by exact type")
	searchCmd.Flags().StringVar(&searchValue, "value", "", "filter by value substring")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "max results")
	rootCmd.AddCommand(objectsCmd)
	rootCmd.AddCommand(searchCmd)
}

func runObjects(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 1 {
		rec, err := apiClient.GetObject(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get object: %w", err)
		}
		return printJSON(rec)
	}

	resp, err := apiClient.ListObjects(ctx, objectsLimit)
	if err != nil {
		return fmt.Errorf("list objects: %w", err)
	}

	if resp.Count == 0 {
		fmt.Println("No objects stored.")
		return nil
	}

	fmt.Printf("Showing %d of %d objects:\n\n", resp.Count, resp.Total)
	printRecords(resp.Objects)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	resp, err := apiClient.SearchObjects(context.Background(), searchType, searchValue, searchLimit)
	if err != nil {
		return fmt.Errorf("search objects: %w", err)
	}

	if resp.Count == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results:\n\n", resp.Count)
	printRecords(resp.Results)
	return nil
}

func printRecords(records []models.ProvenanceRecord) {
	for _, rec := range records {
		switch rec.Kind {
		case models.ObjectKindRelationship:
			fmt.Printf("  %s -[%s]-> %s\n", rec.Source, rec.Type, rec.Target)
		default:
			fmt.Printf("  %s [%s]\n", rec.Value, rec.Type)
		}
		fmt.Printf("    id: %s  ontology: %s  method: %s\n",
			rec.ID, rec.GraphData.SourceOntology, rec.GraphData.Method)
		if verbose {
			fmt.Printf("    %s (%.2f)\n", rec.GraphData.Description, rec.GraphData.Confidence)
		}
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	batchOntology string
	batchDatabase string
	batchFile     string
	batchJSON     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [text]...",
	Short: "Extract knowledge graphs from multiple texts",
	Long: `Extract graphs from multiple documents in one request. The server
processes them concurrently and returns one result per input, in order.

Examples:
  ontograph batch "first document" "second document"
  ontograph batch --file documents.txt --ontology financial`,
	Args: cobra.ArbitraryArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOntology, "ontology", "o", "", "ontology to constrain extraction")
	batchCmd.Flags().StringVarP(&batchDatabase, "database", "d", "", "database scope stamped on the results")
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "read texts from file, one per line")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print the raw JSON results")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	texts := args
	if batchFile != "" {
		fromFile, err := readLines(batchFile)
		if err != nil {
			return fmt.Errorf("read texts: %w", err)
		}
		texts = append(texts, fromFile...)
	}
	if len(texts) == 0 {
		return fmt.Errorf("no texts given: pass arguments or --file")
	}

	ctx := context.Background()
	resp, err := apiClient.BatchExtractGraph(ctx, texts, batchOntology, batchDatabase)
	if err != nil {
		return fmt.Errorf("batch extract: %w", err)
	}

	if batchJSON {
		return printJSON(resp)
	}

	fmt.Printf("Processed %d documents:\n\n", resp.Count)
	for i, result := range resp.Results {
		status := okText.Render("ok")
		if !result.Metadata.Success {
			status = errText.Render("failed")
		}
		fmt.Printf("%d. [%s] %d entities, %d relationships\n",
			i+1, status, len(result.Entities), len(result.Relationships))
		if verbose || !result.Metadata.Success {
			fmt.Printf("   %s\n", hint.Render(result.RefinementInfo))
		}
	}
	return nil
}

// readLines returns the non-blank lines of a file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed <text>...",
	Short: "Generate embedding vectors for texts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	resp, err := apiClient.Embed(ctx, args)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	fmt.Printf("Model: %s (dimension %d)\n", resp.Model, resp.Dimension)
	for i, vec := range resp.Embeddings {
		preview := vec
		if len(preview) > 4 {
			preview = preview[:4]
		}
		fmt.Printf("%d. %v... (%d values)\n", i+1, preview, len(vec))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show server runtime statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statsCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	health, err := apiClient.Health(context.Background())
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	status := health.Status
	if status == "healthy" {
		status = okText.Render(status)
	} else {
		status = errText.Render(status)
	}
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Active ontologies: %v\n", health.ActiveOntologies)
	fmt.Printf("Registered objects: %d\n", health.RegisteredObjects)
	if health.EmbeddingModel != "" {
		fmt.Printf("Embedding model: %s (dimension %d)\n", health.EmbeddingModel, health.EmbeddingDimension)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := apiClient.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Printf("Uptime: %.0fs\n", stats.UptimeSeconds)
	fmt.Printf("Objects: %d   Ontologies: %d\n\n", stats.Objects, stats.Ontologies)

	if len(stats.Operations) == 0 {
		fmt.Println("No operations recorded yet.")
		return nil
	}

	ops := make([]string, 0, len(stats.Operations))
	for op := range stats.Operations {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	fmt.Printf("%-14s %-8s %-10s %-10s %-10s %s\n", "OPERATION", "COUNT", "FAILURES", "AVG(MS)", "MIN(MS)", "MAX(MS)")
	for _, op := range ops {
		m := stats.Operations[op]
		fmt.Printf("%-14s %-8d %-10d %-10.1f %-10d %d\n",
			op, m.Count, m.Failures, m.AvgTimeMs, m.MinTimeMs, m.MaxTimeMs)
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"nexus/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := app.New(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.Store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Documents: %d\n", stats.Documents)
	fmt.Printf("Chunks:    %d\n", stats.Chunks)
	fmt.Printf("Embedding: %s (%d dims)\n", a.Embedder.ModelName(), a.Embedder.Dimension())
	fmt.Printf("Indexed:   %v\n", a.Engine.Indexed())
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"nexus/internal/app"
)

var answerQuery string

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Answer a question from the corpus",
	Long: `Retrieve the most relevant passages and generate a grounded answer.
Without a configured text generator the relevant passages are listed instead.

Example:
  nexus answer -q "how are failed jobs retried?"`,
	RunE: runAnswer,
}

func init() {
	rootCmd.AddCommand(answerCmd)
	answerCmd.Flags().StringVarP(&answerQuery, "query", "q", "", "question (required)")
	answerCmd.MarkFlagRequired("query")
}

func runAnswer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := app.New(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer a.Close()

	ans, err := a.Answerer.Answer(ctx, answerQuery)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	fmt.Println(ans.Text)
	if len(ans.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, s := range ans.Sources {
			fmt.Printf("  [%d] %s (chunk %d) score=%.4f\n", i+1, s.DocumentTitle, s.ChunkIndex, s.Score)
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"nexus/config"
	"nexus/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus - semantic retrieval over a local document corpus",
	Long: `Nexus ingests documents into an embedded corpus and answers
similarity queries over it, with optional reranking and grounded
answer generation.

Example usage:
  nexus ingest ./docs              # Ingest local files
  nexus search -q "rate limiting"  # Find relevant passages
  nexus answer -q "how does auth work?"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.Init(cfg.Logging.Level == "debug")
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./nexus.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}

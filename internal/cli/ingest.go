package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"nexus/internal/adapter/source"
	"nexus/internal/app"
	"nexus/internal/port"
	"nexus/internal/usecase"
)

var (
	ingestURL      string
	ingestTokenEnv string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest documents into the corpus",
	Long: `Ingest documents from a local directory or a remote source.
Each document is chunked, embedded and stored; re-ingesting a document
replaces its previous chunks.

Examples:
  nexus ingest ./docs                    # Ingest local files
  nexus ingest --url https://cms.internal  # Pull from a remote source`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "remote source base URL")
	ingestCmd.Flags().StringVar(&ingestTokenEnv, "token-env", "", "env var holding the remote source bearer token")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	var src port.DocumentSource
	switch {
	case ingestURL != "":
		token := ""
		if ingestTokenEnv != "" {
			token = os.Getenv(ingestTokenEnv)
		}
		src = source.NewHTTP("Remote", ingestURL, token)
	case len(args) > 0:
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("path does not exist: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path is not a directory: %s", path)
		}
		src = source.NewFilesystem(path, cfg.Source.Includes, cfg.Source.Excludes)
	case cfg.Source.URL != "":
		token := ""
		if cfg.Source.TokenEnv != "" {
			token = os.Getenv(cfg.Source.TokenEnv)
		}
		src = source.NewHTTP("Remote", cfg.Source.URL, token)
	default:
		return fmt.Errorf("nothing to ingest: pass a directory or --url")
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)

	chunks := 0
	total, err := a.Ingestor.IngestSource(ctx, src, func(res usecase.IngestResult) {
		chunks += res.ChunkCount
		bar.Add(1)
	})
	bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("ingestion failed after %d documents: %w", total, err)
	}

	if err := a.Engine.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	fmt.Printf("Ingested %d documents (%d chunks) from %s\n", total, chunks, src.Name())
	return nil
}

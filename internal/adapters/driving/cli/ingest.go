package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Index corpus PDFs",
	Long: `Loads every PDF under the given files or directories, splits the pages
into chunks, embeds them and stores them in the passage index.

Re-ingesting a file replaces its passages.

Examples:
  vademecum ingest ./leis
  vademecum ingest lei_organica.pdf plano_diretor.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return unavailable("ingest service")
	}

	report, err := ingestService.Ingest(commandContext(cmd), args, func(e driving.IngestEvent) {
		printIngestEvent(cmd, e)
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Ingested %d files: %d pages, %d chunks\n", len(report.Files), report.Pages, report.Chunks)
	if len(report.Failed) > 0 {
		cmd.Printf("Skipped %d files:\n", len(report.Failed))
		failed := make([]string, 0, len(report.Failed))
		for path := range report.Failed {
			failed = append(failed, path)
		}
		sort.Strings(failed)
		for _, path := range failed {
			cmd.Printf("  %s: %v\n", path, report.Failed[path])
		}
	}
	return nil
}

func printIngestEvent(cmd *cobra.Command, e driving.IngestEvent) {
	name := filepath.Base(e.File)
	switch e.Stage {
	case driving.StageLoaded:
		cmd.Printf("  loaded  %s (%d pages)\n", name, e.Total)
	case driving.StageFailed:
		cmd.Printf("  failed  %s: %v\n", name, e.Err)
	case driving.StageSplit:
		cmd.Printf("  split   %d chunks\n", e.Total)
	case driving.StageEmbedded:
		cmd.Printf("  embedded %d/%d\n", e.Done, e.Total)
	case driving.StageStored:
		cmd.Printf("  stored  %s\n", name)
	}
}

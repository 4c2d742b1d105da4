package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and provider status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return unavailable("ingest service")
	}

	stats, err := ingestService.Stats(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to read index stats: %w", err)
	}

	cmd.Println("[Index]")
	cmd.Printf("  Documents: %d\n", stats.Documents)
	cmd.Printf("  Passages: %d\n", stats.Chunks)
	if stats.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", stats.Dimensions)
	}
	cmd.Println()

	cmd.Println("[Models]")
	cmd.Printf("  LLM: %s\n", describeModel(modelInfo.LLMProvider, modelInfo.LLMModel))
	cmd.Printf("  Embedding: %s\n", describeModel(modelInfo.EmbeddingProvider, modelInfo.EmbeddingModel))

	if servicesErr != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", servicesErr)
		cmd.Println("Run 'vademecum settings show' to check the configuration.")
	} else if stats.Chunks == 0 {
		cmd.Println()
		cmd.Println("The index is empty. Run 'vademecum ingest <path>' to index the corpus.")
	}
	return nil
}

func describeModel(provider, model string) string {
	if provider == "" {
		return "(not configured)"
	}
	return fmt.Sprintf("%s (%s)", model, provider)
}

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed passages",
	Long: `Returns the passages closest to the query by semantic similarity,
without triage or answer synthesis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	if searchService == nil {
		return unavailable("search service")
	}

	passages, err := searchService.Retrieve(commandContext(cmd), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, passages)
	}

	return outputSearchTable(cmd, passages)
}

func outputSearchJSON(cmd *cobra.Command, passages []domain.Passage) error {
	if passages == nil {
		passages = []domain.Passage{}
	}
	data, err := json.MarshalIndent(passages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, passages []domain.Passage) error {
	if len(passages) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, p := range passages {
		// Format: [N] Source, p. Page
		cmd.Printf("  [%d] %s, p. %d\n", i+1, p.Source, p.Page)
		cmd.Printf("      %s\n", excerpt(strings.Join(strings.Fields(p.Content), " "), 200))
		cmd.Println()
	}

	return nil
}

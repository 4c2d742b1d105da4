package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, view, or remove the corpus documents in the passage index.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentRemoveCmd = &cobra.Command{
	Use:     "remove [doc-id]",
	Aliases: []string{"rm"},
	Short:   "Remove a document and its passages",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocumentRemove,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return unavailable("ingest service")
	}

	docs, err := ingestService.Documents(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested. Run 'vademecum ingest <path>' to index the corpus.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:   %s\n", docs[i].Name)
		cmd.Printf("    Pages:  %d  Chunks: %d\n", docs[i].Pages, docs[i].Chunks)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return unavailable("ingest service")
	}

	doc, err := findDocument(cmd, args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:     %s\n", doc.Name)
	cmd.Printf("  Path:     %s\n", doc.Path)
	cmd.Printf("  Pages:    %d\n", doc.Pages)
	cmd.Printf("  Chunks:   %d\n", doc.Chunks)
	cmd.Printf("  Ingested: %s\n", doc.IngestedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return unavailable("ingest service")
	}

	docID := strings.TrimSpace(args[0])
	if err := ingestService.Remove(commandContext(cmd), docID); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Document %s removed from index.\n", docID)
	return nil
}

// findDocument looks a document up by ID or name.
func findDocument(cmd *cobra.Command, ref string) (*domain.Document, error) {
	docs, err := ingestService.Documents(commandContext(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	for i := range docs {
		if docs[i].ID == ref || docs[i].Name == ref {
			return &docs[i], nil
		}
	}
	return nil, fmt.Errorf("document %q: %w", ref, domain.ErrNotFound)
}

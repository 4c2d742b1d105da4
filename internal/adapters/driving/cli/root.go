// Package cli implements the vademecum command line interface with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired by the composition root. A nil service makes the commands
// that need it fail with servicesErr, when set, or a "not configured" error.
var (
	assistantService driving.AssistantService
	searchService    driving.PassageSearchService
	ingestService    driving.IngestService
	settingsService  driving.SettingsService
	servicesErr      error
	modelInfo        ModelInfo
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vademecum",
	Short: "Ask questions about the Leis Orgânicas de Curitiba",
	Long: `vademecum answers questions about the municipal organic laws of Curitiba
using the passages indexed from the corpus PDFs.

Specific questions are answered from the corpus with citations, vague
questions get a clarification request, and requests for exceptions or
approvals open a ticket.

Index the corpus first:
  vademecum ingest ./leis

Then ask:
  vademecum ask "Qual o artigo sobre zoneamento urbano?"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services holds the driving ports the commands use.
type Services struct {
	Assistant driving.AssistantService
	Search    driving.PassageSearchService
	Ingest    driving.IngestService
	Settings  driving.SettingsService

	// Err explains why AI-backed services are missing, if they are.
	Err error

	// Models describes the configured providers for status output.
	Models ModelInfo
}

// ModelInfo names the providers and models in use.
type ModelInfo struct {
	LLMProvider       string
	LLMModel          string
	EmbeddingProvider string
	EmbeddingModel    string
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	assistantService = s.Assistant
	searchService = s.Search
	ingestService = s.Ingest
	settingsService = s.Settings
	servicesErr = s.Err
	modelInfo = s.Models
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Command output goes to stdout.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// unavailable reports a missing service, preferring the wiring error.
func unavailable(name string) error {
	if servicesErr != nil {
		return fmt.Errorf("%s unavailable: %w", name, servicesErr)
	}
	return errors.New(name + " not configured")
}

// commandContext returns the command context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

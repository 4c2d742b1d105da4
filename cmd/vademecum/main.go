// Command vademecum answers questions about the Leis Orgânicas de Curitiba.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/vademecum/internal/adapters/driven/ai"
	"github.com/custodia-labs/vademecum/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vademecum/internal/adapters/driven/index/semantic"
	"github.com/custodia-labs/vademecum/internal/adapters/driven/loader/pdf"
	"github.com/custodia-labs/vademecum/internal/adapters/driven/splitter/recursive"
	"github.com/custodia-labs/vademecum/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vademecum/internal/adapters/driving/cli"
	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/core/services"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// envHome overrides the configuration and data directory.
const envHome = "VADEMECUM_HOME"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app, err := wire()
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = cli.Execute(ctx)
	app.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app owns the resources opened while wiring.
type app struct {
	store *sqlite.Store
	ai    *ai.Services
}

func (a *app) close() {
	if a.ai != nil {
		a.ai.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("Close passage store: %v", err)
		}
	}
}

// wire builds every service and installs them in the CLI. Provider
// failures do not abort: they are reported by the commands that need AI.
func wire() (*app, error) {
	// Verbose flag is parsed later by cobra; honour it for wiring logs too.
	if slices.Contains(os.Args[1:], "--verbose") || slices.Contains(os.Args[1:], "-v") {
		logger.SetVerbose(true)
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded: %v", err)
	}

	home := os.Getenv(envHome)
	if home == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		home = dir
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	promptStore, err := file.NewPromptStore(filepath.Join(home, "prompts"), services.DefaultPrompts())
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return nil, fmt.Errorf("open passage store: %w", err)
	}
	a := &app{store: store}

	aiServices, aiErr := ai.Init(settings)
	a.ai = aiServices
	if aiErr != nil {
		logger.Debug("AI services: %v", aiErr)
	}

	index := semantic.New(aiServices.EmbeddingService, store)
	retriever := services.NewRetriever(index, settings.Assistant.RetrievalTimeout)

	splitter := recursive.New(
		recursive.WithChunkSize(settings.Ingest.ChunkSize),
		recursive.WithOverlap(settings.Ingest.ChunkOverlap),
	)
	ingest := services.NewIngestService(pdf.New(), splitter, aiServices.EmbeddingService, store, settings.Ingest.BatchSize)

	wired := cli.Services{
		Search:   retriever,
		Ingest:   ingest,
		Settings: settingsService,
		Err:      aiErr,
		Models:   modelInfo(settings, aiServices),
	}
	if aiServices.LLMService != nil {
		wired.Assistant = newRouter(aiServices.LLMService, retriever, promptStore, settings.Assistant)
	}

	cli.SetServices(wired)
	cli.SetVersion(version)
	return a, nil
}

// newRouter assembles triage and synthesis over one shared LLM.
func newRouter(
	llm driven.LLMService,
	retriever *services.Retriever,
	prompts driven.PromptStore,
	cfg domain.AssistantSettings,
) *services.Router {
	triageGen := services.NewBoundGenerator(llm,
		driven.GenerateOptions{Temperature: cfg.TriageTemperature}, cfg.LLMTimeout)
	answerGen := services.NewBoundGenerator(llm,
		driven.GenerateOptions{Temperature: cfg.AnswerTemperature}, cfg.LLMTimeout)

	classifier := services.NewClassifier(triageGen, cfg.CorpusName)
	classifier.SetPromptStore(prompts)
	synthesizer := services.NewSynthesizer(answerGen, cfg.CorpusName)
	synthesizer.SetPromptStore(prompts)

	return services.NewRouter(classifier, retriever, synthesizer)
}

func modelInfo(settings *domain.AppSettings, svc *ai.Services) cli.ModelInfo {
	var info cli.ModelInfo
	if svc.LLMService != nil {
		info.LLMProvider = settings.LLM.Provider.String()
		info.LLMModel = svc.LLMService.ModelName()
	}
	if svc.EmbeddingService != nil {
		info.EmbeddingProvider = settings.Embedding.Provider.String()
		info.EmbeddingModel = svc.EmbeddingService.ModelName()
	}
	return info
}

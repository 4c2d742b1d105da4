package driving

import (
	"context"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// IngestService builds the passage index from corpus files.
type IngestService interface {
	// Ingest loads, splits, embeds and stores every supported file found
	// under paths. Progress events are sent to progress when it is non-nil.
	Ingest(ctx context.Context, paths []string, progress func(IngestEvent)) (*IngestReport, error)

	// Documents lists the ingested documents.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Remove deletes an ingested document and its passages.
	Remove(ctx context.Context, id string) error

	// Stats summarises the passage index.
	Stats(ctx context.Context) (domain.IndexStats, error)
}

// IngestStage names a step of ingestion.
type IngestStage string

// Ingestion stages reported through progress events.
const (
	StageLoaded   IngestStage = "loaded"
	StageFailed   IngestStage = "failed"
	StageSplit    IngestStage = "split"
	StageEmbedded IngestStage = "embedded"
	StageStored   IngestStage = "stored"
)

// IngestEvent reports ingestion progress.
type IngestEvent struct {
	Stage IngestStage

	// File is the file the event refers to, when any.
	File string

	// Done and Total count pages, chunks or files depending on Stage.
	Done  int
	Total int

	// Err is set for StageFailed.
	Err error
}

// IngestReport summarises a completed ingestion run.
type IngestReport struct {
	Files  []string
	Failed map[string]error
	Pages  int
	Chunks int
}

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// loadConcurrency bounds parallel file loading.
const loadConcurrency = 4

// IngestService builds the passage index: load, split, embed, store.
type IngestService struct {
	loader    driven.DocumentLoader
	splitter  driven.TextSplitter
	embedder  driven.EmbeddingService
	store     driven.PassageStore
	batchSize int
	now       func() time.Time
}

// NewIngestService creates an ingest service. A batchSize below one uses
// the default of 100 chunks per embedding request.
func NewIngestService(
	loader driven.DocumentLoader,
	splitter driven.TextSplitter,
	embedder driven.EmbeddingService,
	store driven.PassageStore,
	batchSize int,
) *IngestService {
	if batchSize < 1 {
		batchSize = domain.DefaultAppSettings().Ingest.BatchSize
	}
	return &IngestService{
		loader:    loader,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// loadedFile is one successfully loaded corpus file.
type loadedFile struct {
	path   string
	name   string
	pages  []domain.Page
	chunks []domain.Chunk
}

// Ingest loads, splits, embeds and stores every supported file under paths.
// Files that fail to load are reported and skipped.
func (s *IngestService) Ingest(
	ctx context.Context, paths []string, progress func(driving.IngestEvent),
) (*driving.IngestReport, error) {
	logger.Section("Ingest")
	if progress == nil {
		progress = func(driving.IngestEvent) {}
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: configure one with 'vademecum settings embedding'", domain.ErrEmbeddingUnavailable)
	}

	files, err := s.discover(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered %d files", len(files))

	report := &driving.IngestReport{
		Files:  files,
		Failed: make(map[string]error),
	}

	loaded, err := s.loadAll(ctx, files, report, progress)
	if err != nil {
		return report, err
	}
	if report.Pages == 0 {
		return report, fmt.Errorf("%w: no pages could be loaded from %d files", domain.ErrNoDocuments, len(files))
	}

	var all []*domain.Chunk
	for _, f := range loaded {
		if err := s.split(f); err != nil {
			return report, err
		}
		for i := range f.chunks {
			all = append(all, &f.chunks[i])
		}
	}
	report.Chunks = len(all)
	progress(driving.IngestEvent{Stage: driving.StageSplit, Done: len(all), Total: len(all)})
	logger.Debug("Created %d chunks", len(all))

	if err := s.embed(ctx, all, progress); err != nil {
		return report, err
	}

	for i, f := range loaded {
		if err := s.persist(ctx, f); err != nil {
			return report, err
		}
		progress(driving.IngestEvent{Stage: driving.StageStored, File: f.name, Done: i + 1, Total: len(loaded)})
	}

	return report, nil
}

// discover expands paths into supported files, de-duplicated by resolved path.
// Directories are scanned one level deep.
func (s *IngestService) discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		resolved, err := filepath.Abs(p)
		if err != nil {
			return
		}
		if real, err := filepath.EvalSymlinks(resolved); err == nil {
			resolved = real
		}
		if !seen[resolved] {
			seen[resolved] = true
			files = append(files, resolved)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if s.supported(p) {
				add(p)
			}
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.IsDir() && s.supported(e.Name()) {
				add(filepath.Join(p, e.Name()))
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s",
			domain.ErrNoDocuments, strings.Join(s.loader.Extensions(), ", "), strings.Join(paths, ", "))
	}
	return files, nil
}

func (s *IngestService) supported(name string) bool {
	return slices.Contains(s.loader.Extensions(), strings.ToLower(filepath.Ext(name)))
}

// loadAll loads files in parallel. Per-file failures are recorded in the
// report; only context cancellation aborts the run.
func (s *IngestService) loadAll(
	ctx context.Context, files []string, report *driving.IngestReport, progress func(driving.IngestEvent),
) ([]*loadedFile, error) {
	results := make([]*loadedFile, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, path := range files {
		g.Go(func() error {
			pages, err := s.loader.Load(gctx, path)
			name := filepath.Base(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("Load %s failed: %v", name, err)
				report.Failed[path] = err
				progress(driving.IngestEvent{Stage: driving.StageFailed, File: name, Err: err})
				return nil
			}
			results[i] = &loadedFile{path: path, name: name, pages: pages}
			report.Pages += len(pages)
			progress(driving.IngestEvent{Stage: driving.StageLoaded, File: name, Done: len(pages), Total: len(pages)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	loaded := make([]*loadedFile, 0, len(results))
	for _, r := range results {
		if r != nil && len(r.pages) > 0 {
			loaded = append(loaded, r)
		}
	}
	sort.SliceStable(loaded, func(i, j int) bool { return loaded[i].name < loaded[j].name })
	return loaded, nil
}

// split cuts every page of f into chunks carrying page provenance.
func (s *IngestService) split(f *loadedFile) error {
	position := 0
	for _, page := range f.pages {
		parts, err := s.splitter.Split(page.Text)
		if err != nil {
			return fmt.Errorf("split %s page %d: %w", f.name, page.Number, err)
		}
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f.chunks = append(f.chunks, domain.Chunk{
				ID:       uuid.New().String(),
				Source:   f.name,
				Page:     page.Number,
				Position: position,
				Content:  part,
			})
			position++
		}
	}
	return nil
}

// embed fills chunk embeddings in batches.
func (s *IngestService) embed(ctx context.Context, chunks []*domain.Chunk, progress func(driving.IngestEvent)) error {
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start+1, end, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embed chunks %d-%d: got %d vectors for %d texts",
				start+1, end, len(vectors), len(batch))
		}
		for i, c := range batch {
			c.Embedding = vectors[i]
		}

		logger.Debug("Embedded chunks %d-%d of %d", start+1, end, len(chunks))
		progress(driving.IngestEvent{Stage: driving.StageEmbedded, Done: end, Total: len(chunks)})
	}
	return nil
}

// persist replaces the stored passages of f, reusing its document ID on re-ingest.
func (s *IngestService) persist(ctx context.Context, f *loadedFile) error {
	id := uuid.New().String()
	existing, err := s.store.FindDocumentByPath(ctx, f.path)
	switch {
	case err == nil:
		id = existing.ID
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find document %s: %w", f.name, err)
	}

	for i := range f.chunks {
		f.chunks[i].DocumentID = id
	}
	doc := &domain.Document{
		ID:         id,
		Name:       f.name,
		Path:       f.path,
		Pages:      len(f.pages),
		Chunks:     len(f.chunks),
		IngestedAt: s.now(),
	}
	if err := s.store.ReplaceDocument(ctx, doc, f.chunks); err != nil {
		return fmt.Errorf("store document %s: %w", f.name, err)
	}
	return nil
}

// Documents lists the ingested documents.
func (s *IngestService) Documents(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}

// Remove deletes an ingested document and its passages.
func (s *IngestService) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	return s.store.DeleteDocument(ctx, id)
}

// Stats summarises the passage index.
func (s *IngestService) Stats(ctx context.Context) (domain.IndexStats, error) {
	return s.store.Stats(ctx)
}

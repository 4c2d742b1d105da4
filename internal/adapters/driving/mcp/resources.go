package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for vademecum resources.
	uriScheme = "vademecum://"
)

// documentInfo is the JSON view of an ingested document.
type documentInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Pages      int    `json:"pages"`
	Chunks     int    `json:"chunks"`
	IngestedAt string `json:"ingested_at"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Documents ingested into the passage index",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{documentId}",
		Name:        "source",
		Description: "A single ingested document",
		MIMEType:    "application/json",
	}, s.handleSourceResource)
}

// handleSourcesResource returns every ingested document.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingest == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	docs, err := s.ports.Ingest.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]documentInfo, len(docs))
	for i := range docs {
		infos[i] = toDocumentInfo(docs[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleSourceResource returns one ingested document by ID.
func (s *Server) handleSourceResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingest == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractDocumentID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Ingest.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		data, err := json.MarshalIndent(toDocumentInfo(docs[i]), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling document: %w", err)
		}
		return jsonResult(req.Params.URI, string(data)), nil
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

func toDocumentInfo(doc domain.Document) documentInfo {
	return documentInfo{
		ID:         doc.ID,
		Name:       doc.Name,
		Path:       doc.Path,
		Pages:      doc.Pages,
		Chunks:     doc.Chunks,
		IngestedAt: doc.IngestedAt.UTC().Format(time.RFC3339),
	}
}

// extractDocumentID extracts the document ID from a URI like vademecum://sources/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "sources/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

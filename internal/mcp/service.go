package mcp

import (
	"context"
	"fmt"
	"strconv"

	"docstore/internal/documents"
)

// DocumentReader is the read side of the document record store.
type DocumentReader interface {
	List(ctx context.Context) ([]documents.Document, error)
	GetByID(ctx context.Context, id int64) (documents.Document, error)
}

// Service builds manifests and resources from stored documents.
type Service struct {
	Repo DocumentReader
}

// NewService constructs a Service.
func NewService(repo DocumentReader) *Service {
	return &Service{Repo: repo}
}

// Manifest lists every document, most recent first.
func (s *Service) Manifest(ctx context.Context, baseURL string) (Manifest, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return Manifest{}, fmt.Errorf("list documents: %w", err)
	}
	resources := make([]ManifestEntry, 0, len(docs))
	for _, d := range docs {
		resources = append(resources, ManifestEntry{
			ID:             strconv.FormatInt(d.ID, 10),
			Title:          d.Title,
			UploadedAt:     formatTime(d.UploadedAt),
			MCPDocumentURL: DocumentURL(baseURL, d.ID),
			Summary:        summarize(d.ExtractedText),
		})
	}
	return Manifest{
		Name:        ManifestName,
		Description: ManifestDescription,
		Resources:   resources,
	}, nil
}

// Resource returns one document's content. Unknown ids yield
// documents.ErrNotFound.
func (s *Service) Resource(ctx context.Context, id int64, baseURL string) (Resource, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	return Resource{
		ID:            strconv.FormatInt(d.ID, 10),
		Title:         d.Title,
		UploadedAt:    formatTime(d.UploadedAt),
		ExtractedText: d.ExtractedText,
		DownloadURL:   DownloadURL(baseURL, d.StorageKey),
	}, nil
}

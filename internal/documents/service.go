package documents

import (
	"context"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"docstore/internal/shared/metrics"
	"docstore/internal/shared/storage/object"
	"docstore/internal/shared/telemetry"
)

const maxTitleRunes = 255

// TextExtractor produces best-effort text for a stored blob. It must not fail.
type TextExtractor interface {
	Extract(ctx context.Context, storageKey, fileName string) string
}

// Service contains business logic for documents.
type Service struct {
	Store     object.ObjectStore
	Repo      DocumentsRepo
	Extractor TextExtractor
	now       func() time.Time
}

// Upload saves the file to object storage, records the document and attaches
// its extracted text. Extraction problems never fail the upload.
func (s *Service) Upload(ctx context.Context, fileName, title string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || r == nil {
		return Document{}, ErrInvalidInput
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = fileName
	}
	title = truncateRunes(title, maxTitleRunes)

	storageKey, size, mimeType, err := s.Store.Save(ctx, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc, err := s.Repo.Create(ctx, Document{
		Title:      title,
		FileName:   fileName,
		StorageKey: storageKey,
		MimeType:   mimeType,
		SizeBytes:  size,
		UploadedAt: s.clock().UTC(),
	})
	if err != nil {
		return Document{}, err
	}
	metrics.IncUploads()

	if s.Extractor == nil {
		return doc, nil
	}
	text := s.Extractor.Extract(ctx, storageKey, fileName)
	if text == "" {
		return doc, nil
	}
	if err := s.Repo.SetExtractedText(ctx, doc.ID, text); err != nil {
		telemetry.Error("upload.extracted_text_not_saved", map[string]any{
			"document_id": doc.ID,
			"error":       err,
		})
		return doc, nil
	}
	doc.ExtractedText = text
	return doc, nil
}

// List returns all documents, newest first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// Open streams the stored blob behind a storage key.
func (s *Service) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return s.Store.Open(ctx, storageKey)
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

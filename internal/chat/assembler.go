package chat

import (
	"context"
	"fmt"
	"strconv"

	"docstore/internal/documents"
	"docstore/internal/mcp"
)

// DocumentLister is the subset of the record store the assembler reads.
type DocumentLister interface {
	ListRecent(ctx context.Context, limit int) ([]documents.Document, error)
	ListByIDs(ctx context.Context, ids []int64) ([]documents.Document, error)
}

// Assembler resolves which documents accompany a chat message.
type Assembler struct {
	Repo DocumentLister
	// MaxFallbackDocs bounds the context when no ids are requested.
	MaxFallbackDocs int
}

// NewAssembler constructs an Assembler.
func NewAssembler(repo DocumentLister, maxFallbackDocs int) *Assembler {
	return &Assembler{Repo: repo, MaxFallbackDocs: maxFallbackDocs}
}

// Assemble returns the requested documents, or the most recent ones when ids
// is empty, newest first. Unknown ids are dropped.
func (a *Assembler) Assemble(ctx context.Context, ids []int64, baseURL string) ([]ContextItem, error) {
	var (
		docs []documents.Document
		err  error
	)
	if len(ids) > 0 {
		docs, err = a.Repo.ListByIDs(ctx, ids)
	} else {
		docs, err = a.Repo.ListRecent(ctx, a.MaxFallbackDocs)
	}
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	items := make([]ContextItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, ContextItem{
			ID:     strconv.FormatInt(d.ID, 10),
			Title:  d.Title,
			Text:   d.ExtractedText,
			MCPURL: mcp.DocumentURL(baseURL, d.ID),
		})
	}
	return items, nil
}

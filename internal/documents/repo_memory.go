package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[int64]Document),
	}
}

// Create stores a document under the next sequential ID.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	doc.ID = r.nextID
	r.data[doc.ID] = doc
	return doc, nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns every document, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Document, error) {
	return r.collect(ctx, 0, func(Document) bool { return true })
}

// ListRecent returns at most limit documents, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		return []Document{}, nil
	}
	return r.collect(ctx, limit, func(Document) bool { return true })
}

// ListByIDs returns the known documents among ids, newest first.
func (r *MemoryRepo) ListByIDs(ctx context.Context, ids []int64) ([]Document, error) {
	if len(ids) == 0 {
		return []Document{}, nil
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return r.collect(ctx, 0, func(d Document) bool {
		_, ok := want[d.ID]
		return ok
	})
}

// SetExtractedText stores the extracted text if none has been stored yet.
func (r *MemoryRepo) SetExtractedText(ctx context.Context, id int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if doc.ExtractedText == "" {
		doc.ExtractedText = text
		r.data[id] = doc
	}
	return nil
}

func (r *MemoryRepo) collect(ctx context.Context, limit int, keep func(Document) bool) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	docs := make([]Document, 0, len(r.data))
	for _, d := range r.data {
		if keep(d) {
			docs = append(docs, d)
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		return newerFirst(docs[i], docs[j])
	})

	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)

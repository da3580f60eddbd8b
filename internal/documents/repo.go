package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
// List methods return documents most recent first.
type DocumentsRepo interface {
	// Create inserts doc and returns it with its assigned ID.
	Create(ctx context.Context, doc Document) (Document, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	List(ctx context.Context) ([]Document, error)
	ListRecent(ctx context.Context, limit int) ([]Document, error)
	// ListByIDs returns the documents whose ID is in ids; unknown IDs are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]Document, error)
	// SetExtractedText attaches text once; later calls leave the stored text untouched.
	SetExtractedText(ctx context.Context, id int64, text string) error
}

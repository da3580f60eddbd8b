package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const documentColumns = `id, title, file_name, storage_key, mime_type, size_bytes, extracted_text, uploaded_at`

const recencyOrder = ` ORDER BY uploaded_at DESC, id DESC`

// SQLRepo implements DocumentsRepo on Postgres or SQLite. Queries are written
// with ? placeholders and rebound to the handle's dialect.
type SQLRepo struct {
	DB *sqlx.DB
}

// Create inserts a new document and returns it with the generated ID.
func (r *SQLRepo) Create(ctx context.Context, doc Document) (Document, error) {
	query := r.DB.Rebind(`
INSERT INTO documents (
    title,
    file_name,
    storage_key,
    mime_type,
    size_bytes,
    extracted_text,
    uploaded_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`)

	var id int64
	err := r.DB.QueryRowxContext(
		ctx,
		query,
		doc.Title,
		doc.FileName,
		doc.StorageKey,
		doc.MimeType,
		doc.SizeBytes,
		doc.ExtractedText,
		doc.UploadedAt,
	).Scan(&id)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	doc.ID = id
	return doc, nil
}

// GetByID fetches a document by ID.
func (r *SQLRepo) GetByID(ctx context.Context, id int64) (Document, error) {
	query := r.DB.Rebind(`SELECT ` + documentColumns + ` FROM documents WHERE id = ?`)
	var doc Document
	if err := r.DB.GetContext(ctx, &doc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns every document ordered newest-first.
func (r *SQLRepo) List(ctx context.Context) ([]Document, error) {
	return r.selectDocs(ctx, `SELECT `+documentColumns+` FROM documents`+recencyOrder)
}

// ListRecent returns the newest limit documents.
func (r *SQLRepo) ListRecent(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		return []Document{}, nil
	}
	return r.selectDocs(ctx, r.DB.Rebind(`SELECT `+documentColumns+` FROM documents`+recencyOrder+` LIMIT ?`), limit)
}

// ListByIDs returns the documents whose ID is in ids, newest first.
func (r *SQLRepo) ListByIDs(ctx context.Context, ids []int64) ([]Document, error) {
	if len(ids) == 0 {
		return []Document{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+documentColumns+` FROM documents WHERE id IN (?)`+recencyOrder, ids)
	if err != nil {
		return nil, fmt.Errorf("expand ids: %w", err)
	}
	return r.selectDocs(ctx, r.DB.Rebind(query), args...)
}

// SetExtractedText stores the extracted text for a document that has none yet.
func (r *SQLRepo) SetExtractedText(ctx context.Context, id int64, text string) error {
	query := r.DB.Rebind(`
UPDATE documents
SET extracted_text = ?
WHERE id = ? AND extracted_text = ''`)
	res, err := r.DB.ExecContext(ctx, query, text, id)
	if err != nil {
		return fmt.Errorf("update extracted text: %w", err)
	}
	if updated, _ := res.RowsAffected(); updated > 0 {
		return nil
	}

	var exists int
	err = r.DB.GetContext(ctx, &exists, r.DB.Rebind(`SELECT 1 FROM documents WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *SQLRepo) selectDocs(ctx context.Context, query string, args ...any) ([]Document, error) {
	var docs []Document
	if err := r.DB.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

var _ DocumentsRepo = (*SQLRepo)(nil)

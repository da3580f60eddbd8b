package documents

import "time"

// Document is an uploaded file and the text extracted from it.
type Document struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	FileName      string    `db:"file_name"`
	StorageKey    string    `db:"storage_key"`
	MimeType      string    `db:"mime_type"`
	SizeBytes     int64     `db:"size_bytes"`
	ExtractedText string    `db:"extracted_text"`
	UploadedAt    time.Time `db:"uploaded_at"`
}

// newerFirst reports whether a sorts before b in most-recent-first order.
// Ids break ties so the order is total.
func newerFirst(a, b Document) bool {
	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.After(b.UploadedAt)
	}
	return a.ID > b.ID
}

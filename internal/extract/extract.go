package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"docstore/internal/shared/metrics"
	"docstore/internal/shared/storage/object"
	"docstore/internal/shared/telemetry"
)

var errNullPage = errors.New("page has no content")

// Extractor derives plain text from stored uploads.
type Extractor struct {
	Store object.ObjectStore
	// PDF toggles the PDF parsing capability. When false PDFs are decoded as raw text.
	PDF bool
}

// New constructs an Extractor reading blobs from store.
func New(store object.ObjectStore, pdfEnabled bool) *Extractor {
	return &Extractor{Store: store, PDF: pdfEnabled}
}

// Extract returns a best-effort plain-text rendition of the stored file.
// It never fails: any error is logged and yields the empty string.
func (e *Extractor) Extract(ctx context.Context, storageKey, fileName string) string {
	text, err := e.extractText(ctx, storageKey, fileName)
	if err != nil {
		ext := strings.ToLower(filepath.Ext(fileName))
		telemetry.Warn("extract.failed", map[string]any{
			"storage_key": storageKey,
			"file_ext":    ext,
			"error":       err.Error(),
		})
		metrics.IncExtractionFailed(ext)
		return ""
	}
	return text
}

func (e *Extractor) extractText(ctx context.Context, storageKey, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.Store == nil {
		return "", errors.New("extract: no object store configured")
	}

	body, err := e.Store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", storageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: read: %w", storageKey, err)
	}

	text, err := FromBytes(raw, fileName, e.PDF)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", storageKey, err)
	}
	return text, nil
}

// FromBytes extracts text from an in-memory payload, dispatching on the
// lower-cased file extension. Parser panics are reported as errors.
func FromBytes(data []byte, fileName string, pdfEnabled bool) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("parser panic: %v", rec)
		}
	}()

	switch ext := strings.ToLower(filepath.Ext(fileName)); {
	case ext == ".pdf" && pdfEnabled:
		return extractPDF(data)
	case ext == ".docx":
		return extractDOCX(data)
	case ext == ".xlsx":
		return extractXLSX(data)
	default:
		return decodeText(data)
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	return joinPages(r.NumPage(), func(num int) (string, error) {
		page := r.Page(num)
		if page.V.IsNull() {
			return "", errNullPage
		}
		return page.GetPlainText(nil)
	}), nil
}

// joinPages collects pages 1..n in order. A page that fails, or panics,
// contributes an empty segment instead of aborting the join.
func joinPages(n int, pageText func(num int) (string, error)) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for num := 1; num <= n; num++ {
		text, err := safePage(num, pageText)
		if err != nil {
			continue
		}
		parts[num-1] = text
	}
	return strings.Join(parts, "\n")
}

func safePage(num int, pageText func(num int) (string, error)) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", num, rec)
		}
	}()
	return pageText(num)
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func extractXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sheets []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", fmt.Errorf("sheet %s: %w", name, err)
		}
		var b strings.Builder
		b.WriteString("# ")
		b.WriteString(name)
		for _, row := range rows {
			b.WriteString("\n")
			b.WriteString(strings.Join(row, "\t"))
		}
		sheets = append(sheets, b.String())
	}
	return strings.Join(sheets, "\n\n"), nil
}

// decodeText decodes UTF-8 permissively: invalid sequences become U+FFFD and
// a UTF-16 byte order mark switches decoding to UTF-16.
func decodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

package mcp

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fixed identity of this document store in the manifest.
const (
	ManifestName        = "chatapp-document-store"
	ManifestDescription = "Documents uploaded by users; simple MCP manifest exposing doc metadata & URLs."
)

// Route paths. Resource locators are built from these.
const (
	ManifestPath       = "/mcp/manifest/"
	documentPathPrefix = "/mcp/document/"
	mediaPathPrefix    = "/media/"
)

const (
	summaryRunes  = 300
	summarySuffix = "..."
)

// Manifest is the discovery document listing every stored document.
type Manifest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Resources   []ManifestEntry `json:"resources"`
}

// ManifestEntry describes one fetchable document resource.
type ManifestEntry struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	UploadedAt     string `json:"uploaded_at"`
	MCPDocumentURL string `json:"mcp_document_url"`
	Summary        string `json:"summary"`
}

// Resource is the full representation of a single document.
type Resource struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	UploadedAt    string `json:"uploaded_at"`
	ExtractedText string `json:"extracted_text"`
	DownloadURL   string `json:"download_url"`
}

// DocumentURL returns the absolute resource locator for a document.
func DocumentURL(baseURL string, id int64) string {
	return baseURL + documentPathPrefix + strconv.FormatInt(id, 10) + "/"
}

// ManifestURL returns the absolute manifest locator.
func ManifestURL(baseURL string) string {
	return baseURL + ManifestPath
}

// DownloadURL returns the absolute locator of a stored blob. Each key segment
// is percent-escaped; the media route sees the decoded key again.
func DownloadURL(baseURL, storageKey string) string {
	segments := strings.Split(strings.TrimPrefix(storageKey, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return baseURL + mediaPathPrefix + strings.Join(segments, "/")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// summarize returns the first summaryRunes runes of text plus an ellipsis,
// or "" when text is empty.
func summarize(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > summaryRunes {
		runes = runes[:summaryRunes]
	}
	return string(runes) + summarySuffix
}

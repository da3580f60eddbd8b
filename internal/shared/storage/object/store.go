package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"docstore/internal/shared/util"
)

// KeyPrefix namespaces every uploaded document key.
const KeyPrefix = "documents"

// SniffLen is how many leading bytes are inspected to guess a content type.
const SniffLen = 512

// ErrInvalidKey is returned when a storage key escapes the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// NewKey returns a fresh storage key for an upload. Keys always use forward
// slashes so they can be embedded in URLs.
func NewKey(fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(KeyPrefix, uuid.NewString()+"_"+name), nil
}

// CheckKey rejects keys that are empty, absolute or contain a ".." segment.
// Dots inside a segment, as in "notes..v2.txt", are fine.
func CheckKey(storageKey string) error {
	if strings.Trim(storageKey, "/") == "" || strings.HasPrefix(storageKey, "/") || strings.Contains(storageKey, `\`) {
		return ErrInvalidKey
	}
	for _, seg := range strings.Split(storageKey, "/") {
		if seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// ContentType prefers the extension's registered type, since office formats
// sniff as plain zip archives, and falls back to content sniffing.
func ContentType(fileName string, head []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(fileName))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(head)
}

// ReadHead reads up to SniffLen bytes for content detection.
func ReadHead(r io.Reader) ([]byte, error) {
	head := make([]byte, SniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read head: %w", err)
	}
	return head[:n], nil
}

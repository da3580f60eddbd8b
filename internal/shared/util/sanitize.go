package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameRunes bounds the sanitized name embedded in storage keys.
const MaxFileNameRunes = 120

// ErrInvalidFileName is returned for names that are empty or "." once cleaned.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes an upload name safe to embed as a single storage key
// segment. Path separators become underscores, so dots never form a ".."
// segment. Control characters are dropped and long names are shortened while
// keeping their extension.
func SanitizeFileName(name string) (string, error) {
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}

	if utf8.RuneCountInString(s) > MaxFileNameRunes {
		ext := path.Ext(s)
		if utf8.RuneCountInString(ext) >= MaxFileNameRunes/2 {
			ext = ""
		}
		stem := []rune(strings.TrimSuffix(s, ext))
		s = string(stem[:MaxFileNameRunes-utf8.RuneCountInString(ext)]) + ext
	}
	return s, nil
}

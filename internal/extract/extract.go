// ABOUTME: Text extraction boundary: file path in, plain text out
// ABOUTME: Ships a plain-text adapter; binary formats are external collaborators
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType indicates no extractor is registered for a file type.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extractor yields plain text given a file path. This core never parses
// binary formats itself; PDF/DOCX/PPTX adapters plug in behind this
// interface.
type Extractor interface {
	Extract(path string) (string, error)
}

// TextExtractor reads plain-text files (.txt, .md).
type TextExtractor struct{}

// Extract reads the file and normalizes line endings.
func (TextExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// ForFile returns an extractor for the file's extension.
func ForFile(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
}

// Package extract is the block-source boundary: it turns document files into
// ordered pipeline blocks, pre-sorted by page then vertical position. Layout
// detection beyond text extraction (figures, scanned pages) is out of scope
// here; page-oriented formats yield paragraph-level text blocks.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ragdocs/internal/core/pipeline"
)

// ErrUnsupportedFormat marks file extensions the block source cannot handle.
// Fatal for that document only when the orchestrator catches and skips it.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrDocumentRead marks per-document read or parse failures. The assembler
// logs these and continues with the remaining documents.
var ErrDocumentRead = errors.New("document read failed")

// SupportedExtensions lists the extensions the dispatcher can handle.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Dispatch routes extraction by file extension. With Raw set, every document
// becomes a single synthetic text block regardless of format.
type Dispatch struct {
	Raw bool
}

func (d Dispatch) Extract(path string) ([]pipeline.Block, error) {
	if d.Raw {
		return extractRaw(path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".txt":
		return extractTxt(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// extractRaw reads the whole file as one synthetic text block on page 0.
func extractRaw(path string) ([]pipeline.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentRead, path, err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}
	return []pipeline.Block{{
		Type: pipeline.BlockText,
		Text: content,
		Page: 0,
		Y:    0,
	}}, nil
}

// paragraphs splits text on blank lines, trimming each piece.
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package extract

import (
	"fmt"
	"os"

	"ragdocs/internal/core/pipeline"
)

// extractTxt splits a plain-text file into paragraph blocks on blank lines.
// Plain text has no pages; y carries the paragraph index for ordering.
func extractTxt(path string) ([]pipeline.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentRead, path, err)
	}

	var blocks []pipeline.Block
	for i, para := range paragraphs(string(data)) {
		blocks = append(blocks, pipeline.Block{
			Type: pipeline.BlockText,
			Text: para,
			Page: 0,
			Y:    float64(i),
		})
	}
	return blocks, nil
}

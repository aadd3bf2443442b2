package extract

import (
	"fmt"
	"strings"

	"ragdocs/internal/core/pipeline"

	pdflib "github.com/ledongthuc/pdf"
)

// extractPDF pulls per-page plain text and emits one text block per
// paragraph, ordered by page then paragraph position. Pages are 0-based to
// match the rest of the pipeline's provenance.
func extractPDF(path string) ([]pipeline.Block, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentRead, path, err)
	}
	defer f.Close()

	var blocks []pipeline.Block
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		for j, para := range paragraphs(normalizePDFText(text)) {
			blocks = append(blocks, pipeline.Block{
				Type: pipeline.BlockText,
				Text: para,
				Page: i - 1,
				Y:    float64(j),
			})
		}
	}
	return blocks, nil
}

// normalizePDFText repairs hyphenated line breaks and collapses runs of
// blank lines so paragraph splitting stays stable across extractors.
func normalizePDFText(text string) string {
	text = strings.ReplaceAll(text, "-\n", "")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text
}

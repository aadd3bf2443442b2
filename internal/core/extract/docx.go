package extract

import (
	"fmt"
	"os"
	"strings"

	"ragdocs/internal/core/pipeline"

	"github.com/fumiama/go-docx"
)

// extractDOCX emits one block per non-empty paragraph. Heading-styled
// paragraphs become title blocks, everything else text. DOCX has no fixed
// pagination, so all blocks sit on page 0 with y following paragraph order.
func extractDOCX(path string) ([]pipeline.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentRead, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentRead, path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentRead, path, err)
	}

	var blocks []pipeline.Block
	y := 0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		btype := pipeline.BlockText
		if isHeading(para) {
			btype = pipeline.BlockTitle
		}
		blocks = append(blocks, pipeline.Block{
			Type: btype,
			Text: text,
			Page: 0,
			Y:    float64(y),
		})
		y++
	}
	return blocks, nil
}

func isHeading(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(para.Properties.Style.Val)
	return strings.HasPrefix(style, "heading")
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

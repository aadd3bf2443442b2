package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ragdocs/internal/core/pipeline"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestDispatch_UnsupportedExtension(t *testing.T) {
	_, err := Dispatch{}.Extract("notes.xyz")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDispatch_MissingFile(t *testing.T) {
	_, err := Dispatch{}.Extract(filepath.Join(t.TempDir(), "gone.txt"))
	if !errors.Is(err, ErrDocumentRead) {
		t.Fatalf("expected ErrDocumentRead, got %v", err)
	}
}

func TestExtractTxt_ParagraphBlocks(t *testing.T) {
	path := writeTemp(t, "doc.txt", "first paragraph line one\nline two\n\nsecond paragraph\n\n\n")

	blocks, err := Dispatch{}.Extract(path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Text != "first paragraph line one\nline two" {
		t.Fatalf("unexpected first paragraph: %q", blocks[0].Text)
	}
	if blocks[1].Text != "second paragraph" {
		t.Fatalf("unexpected second paragraph: %q", blocks[1].Text)
	}
	for i, b := range blocks {
		if b.Type != pipeline.BlockText || b.Page != 0 {
			t.Fatalf("block %d has wrong type/page: %+v", i, b)
		}
		if b.Y != float64(i) {
			t.Fatalf("block %d has y %v, want %d", i, b.Y, i)
		}
	}
}

func TestExtractRaw_SingleSyntheticBlock(t *testing.T) {
	path := writeTemp(t, "doc.md", "# Title\n\nBody text here.\n")

	blocks, err := Dispatch{Raw: true}.Extract(path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("raw mode must emit a single block, got %d", len(blocks))
	}
	if blocks[0].Type != pipeline.BlockText || blocks[0].Page != 0 {
		t.Fatalf("unexpected raw block: %+v", blocks[0])
	}
}

func TestExtractRaw_EmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", "   \n")

	blocks, err := Dispatch{Raw: true}.Extract(path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks for blank file, got %d", len(blocks))
	}
}

package pipeline

import "testing"

func TestMergeSmallBlocks_SamePage(t *testing.T) {
	blocks := []Block{
		{Type: BlockText, Text: "a b", Page: 0},
		{Type: BlockText, Text: "c d e f", Page: 0},
		{Type: BlockText, Text: "g", Page: 1},
	}

	out := MergeSmallBlocks(blocks, 3)

	if len(out) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(out))
	}
	if out[0].Text != "a b c d e f" || out[0].Page != 0 {
		t.Fatalf("wrong merged block: %+v", out[0])
	}
	if out[1].Text != "g" || out[1].Page != 1 {
		t.Fatalf("wrong trailing block: %+v", out[1])
	}
}

func TestMergeSmallBlocks_NeverCrossesPages(t *testing.T) {
	blocks := []Block{
		{Type: BlockText, Text: "short one", Page: 0},
		{Type: BlockText, Text: "short two", Page: 1},
	}

	out := MergeSmallBlocks(blocks, 5)

	if len(out) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(out))
	}
	if out[0].Text != "short one" || out[1].Text != "short two" {
		t.Fatalf("undersized blocks on different pages were concatenated: %+v", out)
	}
	if out[0].Page != 0 || out[1].Page != 1 {
		t.Fatalf("page provenance corrupted: %+v", out)
	}
}

func TestMergeSmallBlocks_EntityUnionIdempotent(t *testing.T) {
	acme := Entity{Text: "Acme", Label: "ORG"}
	blocks := []Block{
		{Type: BlockText, Text: "one", Page: 0, Entities: []Entity{acme}},
		{Type: BlockText, Text: "two", Page: 0, Entities: []Entity{acme, {Text: "Bob", Label: "PERSON"}}},
	}

	out := MergeSmallBlocks(blocks, 5)

	if len(out) != 1 {
		t.Fatalf("expected 1 merged block, got %d", len(out))
	}
	count := 0
	for _, e := range out[0].Entities {
		if e == acme {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one Acme/ORG entity, got %d", count)
	}
	if len(out[0].Entities) != 2 {
		t.Fatalf("expected 2 distinct entities, got %d", len(out[0].Entities))
	}
}

// The combined block takes the buffer's type, page and filename; the large
// neighbor only contributes text and entities.
func TestMergeSmallBlocks_BufferFieldsWin(t *testing.T) {
	blocks := []Block{
		{Type: BlockTitle, Text: "Overview", Page: 2, Filename: "a.pdf"},
		{Type: BlockText, Text: "one two three four five six seven eight", Page: 2, Filename: "a.pdf",
			Entities: []Entity{{Text: "Acme", Label: "ORG"}}},
	}

	out := MergeSmallBlocks(blocks, 5)

	if len(out) != 1 {
		t.Fatalf("expected 1 block, got %d", len(out))
	}
	b := out[0]
	if b.Type != BlockTitle {
		t.Fatalf("expected buffer type to win, got %s", b.Type)
	}
	if b.Text != "Overview one two three four five six seven eight" {
		t.Fatalf("unexpected merged text: %q", b.Text)
	}
	if len(b.Entities) != 1 {
		t.Fatalf("expected the neighbor's entity unioned in, got %d", len(b.Entities))
	}
}

func TestMergeSmallBlocks_TrailingBufferEmitted(t *testing.T) {
	blocks := []Block{
		{Type: BlockText, Text: "dangling caption", Page: 3},
	}

	out := MergeSmallBlocks(blocks, 20)

	if len(out) != 1 {
		t.Fatalf("expected the trailing buffer emitted, got %d blocks", len(out))
	}
	if out[0].Text != "dangling caption" {
		t.Fatalf("unexpected text: %q", out[0].Text)
	}
}

// Mutating the buffer must not write through to the input block's entity
// slice.
func TestMergeSmallBlocks_DoesNotAliasInputEntities(t *testing.T) {
	src := []Entity{{Text: "Acme", Label: "ORG"}}
	blocks := []Block{
		{Type: BlockText, Text: "one", Page: 0, Entities: src},
		{Type: BlockText, Text: "two", Page: 0, Entities: []Entity{{Text: "Bob", Label: "PERSON"}}},
	}

	_ = MergeSmallBlocks(blocks, 5)

	if len(src) != 1 {
		t.Fatalf("input entity slice was mutated: %+v", src)
	}
}

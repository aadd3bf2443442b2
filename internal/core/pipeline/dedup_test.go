package pipeline

import "testing"

func TestRemoveNearDuplicates_TrailingWindow(t *testing.T) {
	blocks := []Block{
		{Type: BlockText, Text: "hello world"},
		{Type: BlockText, Text: "HELLO   WORLD"},
		{Type: BlockText, Text: "foo bar"},
		{Type: BlockText, Text: "hello world"},
	}

	out := RemoveNearDuplicates(blocks, 2)

	if len(out) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(out))
	}
	if out[0].Text != "hello world" || out[1].Text != "foo bar" {
		t.Fatalf("wrong survivors: %q, %q", out[0].Text, out[1].Text)
	}
}

// Identical blocks more than window kept-blocks apart are both retained; the
// filter is local by design, not a global deduplicator.
func TestRemoveNearDuplicates_BeyondWindowKept(t *testing.T) {
	blocks := []Block{
		{Text: "repeated caption"},
		{Text: "alpha"},
		{Text: "beta"},
		{Text: "gamma"},
		{Text: "repeated caption"},
	}

	out := RemoveNearDuplicates(blocks, 3)

	if len(out) != 5 {
		t.Fatalf("expected all 5 blocks kept, got %d", len(out))
	}
}

func TestRemoveNearDuplicates_WhitespaceNormalization(t *testing.T) {
	blocks := []Block{
		{Text: "  Figure 1:\n\tOverview  "},
		{Text: "figure 1: overview"},
	}

	out := RemoveNearDuplicates(blocks, 10)

	if len(out) != 1 {
		t.Fatalf("expected 1 block, got %d", len(out))
	}
}

package pipeline

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	text := "First sentence. Second one! Third?\n\nNew paragraph without punctuation"
	got := splitSentences(text)

	want := []string{
		"First sentence.",
		"Second one!",
		"Third?",
		"New paragraph without punctuation",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sentence %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitSentences_AbbreviationMidSentence(t *testing.T) {
	// A period not followed by whitespace is not a boundary.
	got := splitSentences("See section 3.1 for details.")
	if len(got) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %q", len(got), got)
	}
}

func TestNewTokenSplitter_RejectsNonPositiveBudget(t *testing.T) {
	if _, err := NewTokenSplitter("gpt-3.5-turbo", 0); err == nil {
		t.Fatalf("expected error for zero token budget")
	}
	if _, err := NewTokenSplitter("gpt-3.5-turbo", -5); err == nil {
		t.Fatalf("expected error for negative token budget")
	}
}

// Exercises the real tokenizer when its vocabulary is available locally;
// skipped otherwise so the suite stays hermetic.
func TestTokenSplitter_BoundedPieces(t *testing.T) {
	s, err := NewTokenSplitter("gpt-3.5-turbo", 20)
	if err != nil {
		t.Skipf("tokenizer vocabulary unavailable: %v", err)
	}

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	pieces, err := s.Split(text)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces, got %d", len(pieces))
	}
	for i, p := range pieces {
		n := len(s.enc.Encode(p, nil, nil))
		if n > 20 {
			t.Fatalf("piece %d exceeds token budget: %d tokens", i, n)
		}
	}
}

func TestTokenSplitter_EmptyText(t *testing.T) {
	s := &TokenSplitter{chunkTokens: 10}
	pieces, err := s.Split("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pieces) != 0 {
		t.Fatalf("expected no pieces for blank text, got %d", len(pieces))
	}
}

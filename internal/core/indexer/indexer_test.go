package indexer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"ragdocs/internal/core/pipeline"
)

func TestChunkPrimaryKey_DeterministicAndPositive(t *testing.T) {
	ch := pipeline.Chunk{UserID: "u1", Filename: "a.pdf", ChunkID: 7}

	first := chunkPrimaryKey(ch)
	second := chunkPrimaryKey(ch)
	if first != second {
		t.Fatalf("key not deterministic: %d != %d", first, second)
	}
	if first < 0 {
		t.Fatalf("key must be non-negative, got %d", first)
	}
}

func TestChunkPrimaryKey_DistinguishesIdentity(t *testing.T) {
	base := pipeline.Chunk{UserID: "u1", Filename: "a.pdf", ChunkID: 7}
	otherUser := base
	otherUser.UserID = "u2"
	otherFile := base
	otherFile.Filename = "b.pdf"
	otherChunk := base
	otherChunk.ChunkID = 8

	keys := map[int64]bool{}
	for _, ch := range []pipeline.Chunk{base, otherUser, otherFile, otherChunk} {
		keys[chunkPrimaryKey(ch)] = true
	}
	if len(keys) != 4 {
		t.Fatalf("expected 4 distinct keys, got %d", len(keys))
	}
}

func TestTruncateOnRune(t *testing.T) {
	short := "hello"
	if got := truncateOnRune(short, 10); got != short {
		t.Fatalf("short string changed: %q", got)
	}

	// "é" is two bytes; a cut at byte 5 would land mid-rune.
	s := "abcdé" + strings.Repeat("x", 10)
	got := truncateOnRune(s, 5)
	if got != "abcd" {
		t.Fatalf("expected cut before multi-byte rune, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string is not valid UTF-8: %q", got)
	}

	exact := "abcde"
	if got := truncateOnRune(exact+"fgh", 5); got != exact {
		t.Fatalf("expected byte-exact cut on ASCII, got %q", got)
	}
}

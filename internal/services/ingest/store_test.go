package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"ragdocs/internal/core/pipeline"
)

func TestChunkStore_SaveLoadRoundTrip(t *testing.T) {
	store := ChunkStore{Dir: t.TempDir()}
	chunks := []pipeline.Chunk{
		{Filename: "a.pdf", ChunkID: 0, Text: "first", Type: "text", Page: 0, UserID: "u1",
			Entities: []pipeline.Entity{{Text: "Acme", Label: "ORG"}}},
		{Filename: "a.pdf", ChunkID: 1, Text: "second", Type: "text", Page: 1, UserID: "u1"},
	}

	if err := store.Save("u1", chunks); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := store.Load("u1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].Entities[0] != (pipeline.Entity{Text: "Acme", Label: "ORG"}) {
		t.Fatalf("entities lost in round trip: %+v", got[0])
	}
}

// A new run fully replaces the store; nothing from the prior run survives.
func TestChunkStore_SaveReplacesPriorRun(t *testing.T) {
	store := ChunkStore{Dir: t.TempDir()}

	if err := store.Save("u1", []pipeline.Chunk{{ChunkID: 0, Text: "old"}, {ChunkID: 1, Text: "old2"}}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := store.Save("u1", []pipeline.Chunk{{ChunkID: 0, Text: "new"}}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := store.Load("u1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 1 || got[0].Text != "new" {
		t.Fatalf("prior run leaked into the store: %+v", got)
	}
}

func TestChunkStore_LoadMissingIsEmpty(t *testing.T) {
	store := ChunkStore{Dir: t.TempDir()}
	got, err := store.Load("nobody")
	if err != nil {
		t.Fatalf("missing store must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %d chunks", len(got))
	}
}

func TestChunkStore_RejectsPathTraversal(t *testing.T) {
	store := ChunkStore{Dir: t.TempDir()}
	if err := store.Save("../evil", nil); err == nil {
		t.Fatalf("expected error for traversal user id")
	}
	if _, err := store.Load("a/b"); err == nil {
		t.Fatalf("expected error for user id with separator")
	}
}

func TestChunkStore_SaveEmptyRun(t *testing.T) {
	dir := t.TempDir()
	store := ChunkStore{Dir: dir}
	if err := store.Save("u2", nil); err != nil {
		t.Fatalf("empty run must persist an empty store: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "chunks_u2.json")); err != nil {
		t.Fatalf("store file missing: %v", err)
	}
	got, err := store.Load("u2")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty sequence, got %v, err %v", got, err)
	}
}

func TestBuildContentPreview(t *testing.T) {
	in := "\uFEFFHello\x00 world\n"
	out := buildContentPreview(in, 512)
	if out != "Hello world" {
		t.Fatalf("unexpected preview: %q", out)
	}
}

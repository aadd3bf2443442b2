package query

import (
	"context"
	"strings"
	"testing"
)

func TestRun_RequiresUser(t *testing.T) {
	_, err := Run(context.Background(), Request{Question: "what is this"})
	if err == nil {
		t.Fatalf("expected error when user_id is missing")
	}
}

func TestBuildPrompt_IncludesContexts(t *testing.T) {
	ctxs := []ContextSnippet{
		{Filename: "report.pdf", ChunkID: 3, Page: 2, Snippet: "Revenue grew 12%."},
		{Filename: "notes.txt", ChunkID: 0, Page: 0, Snippet: "  Q3 targets\x00 met.  "},
	}
	sys, user := buildPrompt("How did Q3 go?", ctxs)

	if !strings.Contains(sys, "report.pdf") || !strings.Contains(sys, "Revenue grew 12%.") {
		t.Fatalf("system prompt missing context: %s", sys)
	}
	if strings.Contains(sys, "\x00") {
		t.Fatalf("system prompt contains NUL byte")
	}
	if !strings.Contains(sys, noEvidenceAnswer) {
		t.Fatalf("system prompt missing refusal instruction")
	}
	if !strings.Contains(user, "How did Q3 go?") {
		t.Fatalf("user prompt missing question: %s", user)
	}
}

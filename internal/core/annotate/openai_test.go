package annotate

import (
	"context"
	"testing"

	"ragdocs/internal/core/pipeline"
)

func TestParseAnnotations_PlainJSON(t *testing.T) {
	content := `[{"index":0,"entities":[{"text":"Acme","label":"ORG"}]},{"index":1,"entities":[]}]`

	anns, err := parseAnnotations(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(anns) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(anns))
	}
	if anns[0].Entities[0] != (pipeline.Entity{Text: "Acme", Label: "ORG"}) {
		t.Fatalf("unexpected entity: %+v", anns[0].Entities[0])
	}
}

func TestParseAnnotations_CodeFenced(t *testing.T) {
	content := "```json\n[{\"index\":0,\"entities\":[{\"text\":\"Bob\",\"label\":\"PERSON\"}]}]\n```"

	anns, err := parseAnnotations(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(anns) != 1 || anns[0].Entities[0].Text != "Bob" {
		t.Fatalf("unexpected annotations: %+v", anns)
	}
}

func TestParseAnnotations_Garbage(t *testing.T) {
	if _, err := parseAnnotations("the model refused"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDedupEntities(t *testing.T) {
	in := []pipeline.Entity{
		{Text: "Acme", Label: "ORG"},
		{Text: "Acme", Label: "ORG"},
		{Text: "Acme", Label: "LOC"},
	}
	out := dedupEntities(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 distinct entities, got %d", len(out))
	}
}

func TestNoopKeepsBlocks(t *testing.T) {
	blocks := []pipeline.Block{{Text: "a"}, {Text: "b"}}
	out, err := Noop{}.Annotate(context.Background(), blocks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].Text != "a" || out[1].Text != "b" {
		t.Fatalf("noop changed the block sequence: %+v", out)
	}
}

package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ragdocs/config"
	"ragdocs/internal/core/pipeline"
	"ragdocs/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const annotateBatchSize = 20

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type blockAnnotation struct {
	Index    int               `json:"index"`
	Entities []pipeline.Entity `json:"entities"`
}

// OpenAI extracts named entities per block through a chat completion with a
// strict JSON contract. Blocks come back in the same order with only their
// Entities field changed.
type OpenAI struct{}

func (OpenAI) Annotate(ctx context.Context, blocks []pipeline.Block) ([]pipeline.Block, error) {
	if len(blocks) == 0 {
		return blocks, nil
	}
	key := config.Cfg.OpenAI.Key
	if key == "" {
		return nil, errors.New("missing openai key")
	}
	model := config.Cfg.OpenAI.NERModel
	if model == "" {
		model = config.Cfg.OpenAI.Model
	}

	client := openai.NewClient(option.WithAPIKey(key))

	for start := 0; start < len(blocks); start += annotateBatchSize {
		end := start + annotateBatchSize
		if end > len(blocks) {
			end = len(blocks)
		}
		batch := blocks[start:end]

		req := chatRequest{
			Model:       model,
			Temperature: 0,
			Messages: []chatMessage{
				{Role: "system", Content: nerSystemPrompt},
				{Role: "user", Content: buildNERPrompt(batch)},
			},
		}
		var out chatResponse
		if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
			logger.Error(err, "%v: ner batch failed (%d-%d)", config.ModuleAnnotate, start, end)
			return nil, err
		}
		if len(out.Choices) == 0 {
			return nil, errors.New("no choices returned")
		}

		annotations, err := parseAnnotations(out.Choices[0].Message.Content)
		if err != nil {
			logger.Error(err, "%v: unparsable ner response (%d-%d)", config.ModuleAnnotate, start, end)
			return nil, err
		}
		for _, ann := range annotations {
			if ann.Index < 0 || ann.Index >= len(batch) {
				continue
			}
			batch[ann.Index].Entities = dedupEntities(ann.Entities)
		}
	}
	return blocks, nil
}

const nerSystemPrompt = "You are a named-entity extraction engine. " +
	"For each numbered text, list the named entities with labels " +
	"PERSON, ORG, LOC, DATE, MISC. " +
	"Answer with a JSON array only: " +
	`[{"index":0,"entities":[{"text":"...","label":"..."}]}]`

func buildNERPrompt(blocks []pipeline.Block) string {
	var b strings.Builder
	for i, blk := range blocks {
		fmt.Fprintf(&b, "[%d] %s\n\n", i, blk.Text)
	}
	return b.String()
}

// parseAnnotations tolerates markdown code fences around the JSON body.
func parseAnnotations(content string) ([]blockAnnotation, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var annotations []blockAnnotation
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &annotations); err != nil {
		return nil, fmt.Errorf("parse ner response: %w", err)
	}
	return annotations, nil
}

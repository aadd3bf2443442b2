package pipeline

import (
	"context"
	"fmt"

	"ragdocs/config"
	"ragdocs/pkg/logger"
)

// BlockSource produces the ordered raw blocks of one document, sorted by page
// then vertical position.
type BlockSource interface {
	Extract(path string) ([]Block, error)
}

// Annotator attaches named-entity annotations to each block's text. It must
// not reorder or drop blocks.
type Annotator interface {
	Annotate(ctx context.Context, blocks []Block) ([]Block, error)
}

// Document identifies one input file of an ingestion run.
type Document struct {
	Path     string
	Filename string
}

// Assembler runs the full block pipeline for one user:
// collect -> header/footer filter -> annotate -> near-duplicate filter ->
// small-block merge -> split -> chunks with contiguous IDs from 0.
type Assembler struct {
	source    BlockSource
	annotator Annotator
	splitter  Splitter
	window    int
	minWords  int
}

func NewAssembler(source BlockSource, annotator Annotator, splitter Splitter, window, minWords int) *Assembler {
	return &Assembler{
		source:    source,
		annotator: annotator,
		splitter:  splitter,
		window:    window,
		minWords:  minWords,
	}
}

// Assemble converts the documents' raw blocks into the final chunk list.
// A document whose extraction fails is logged and skipped; the run continues.
// Zero documents is a successful run producing zero chunks.
func (a *Assembler) Assemble(ctx context.Context, docs []Document, userID string) ([]Chunk, error) {
	var blocks []Block
	for _, doc := range docs {
		raw, err := a.source.Extract(doc.Path)
		if err != nil {
			logger.Error(err, "%v: skipping document %s", config.ModulePipeline, doc.Filename)
			continue
		}
		for i := range raw {
			raw[i].Filename = doc.Filename
			raw[i].UserID = userID
		}
		blocks = append(blocks, raw...)
	}

	blocks = RemoveHeadersFooters(blocks)

	blocks, err := a.annotator.Annotate(ctx, blocks)
	if err != nil {
		return nil, fmt.Errorf("annotate blocks: %w", err)
	}

	blocks = RemoveNearDuplicates(blocks, a.window)
	blocks = MergeSmallBlocks(blocks, a.minWords)

	chunks := make([]Chunk, 0, len(blocks))
	chunkID := 0
	for _, b := range blocks {
		pieces, err := a.splitter.Split(b.Text)
		if err != nil {
			return nil, fmt.Errorf("split block (file %s, page %d): %w", b.Filename, b.Page, err)
		}
		for _, piece := range pieces {
			chunks = append(chunks, Chunk{
				Filename: b.Filename,
				ChunkID:  chunkID,
				Text:     piece,
				Type:     string(b.Type),
				Page:     b.Page,
				Entities: b.Entities,
				UserID:   b.UserID,
			})
			chunkID++
		}
	}

	logger.Info("%v: assembled %d chunks from %d documents for user %s",
		config.ModulePipeline, len(chunks), len(docs), userID)
	return chunks, nil
}

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"ragdocs/config"
	"ragdocs/internal/core/annotate"
	"ragdocs/internal/core/extract"
	"ragdocs/internal/core/pipeline"
	"ragdocs/internal/database"
	"ragdocs/pkg/logger"

	"gorm.io/gorm"
)

// RunIngestion executes the full pipeline for one user: collect documents,
// assemble chunks, persist the JSON chunk store and the DB mirror. Concurrent
// runs for the same user are not coordinated; callers serialize them.
func RunIngestion(ctx context.Context, userID string, force bool) error {
	db, err := database.GetDB()
	if err != nil {
		logger.Error(err, "%v: db unavailable", config.ModuleIngest)
		return err
	}

	// Idempotency
	exists, err := HasChunks(db, userID)
	if err != nil {
		logger.Error(err, "%v: check chunks failed", config.ModuleIngest)
		return err
	}
	if exists && !force {
		logger.Info("%v: chunks already exist for user %s; skip (no force)", config.ModuleIngest, userID)
		return nil
	}

	docs, regIDs, cleanup, err := collectDocuments(ctx, db, userID)
	if err != nil {
		logger.Error(err, "%v: collect documents failed", config.ModuleIngest)
		return err
	}
	defer cleanup()

	for _, id := range regIDs {
		_ = UpdateDocumentStatus(ctx, id, "processing")
	}

	assembler, err := buildAssembler()
	if err != nil {
		markFailed(ctx, regIDs)
		logger.Error(err, "%v: build pipeline failed", config.ModuleIngest)
		return err
	}

	chunks, err := assembler.Assemble(ctx, docs, userID)
	if err != nil {
		markFailed(ctx, regIDs)
		logger.Error(err, "%v: assemble failed", config.ModuleIngest)
		return err
	}

	store := ChunkStore{Dir: config.Cfg.Paths.StorageDir}
	if err := store.Save(userID, chunks); err != nil {
		markFailed(ctx, regIDs)
		logger.Error(err, "%v: persist chunk store failed", config.ModuleIngest)
		return err
	}

	// Old rows disappear only together with the new ones landing.
	err = database.WithTx(ctx, func(tx *gorm.DB) error {
		if err := DeleteChunksByUser(tx, userID); err != nil {
			return err
		}
		return InsertChunks(tx, userID, chunks)
	})
	if err != nil {
		markFailed(ctx, regIDs)
		logger.Error(err, "%v: replace chunk rows failed", config.ModuleIngest)
		return err
	}

	for _, id := range regIDs {
		_ = UpdateDocumentStatus(ctx, id, "ready")
	}
	logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"documents": len(docs),
		"chunks":    len(chunks),
	}).Info("ingest: run complete")
	return nil
}

// buildAssembler wires the pipeline from the resolved configuration. The
// annotator falls back to a no-op when no NER backend is configured or the
// run is in raw mode.
func buildAssembler() (*pipeline.Assembler, error) {
	ing := config.Cfg.Ingest

	splitter, err := pipeline.NewTokenSplitter(ing.TokenizerModel, ing.ChunkTokens)
	if err != nil {
		return nil, err
	}

	var annotator pipeline.Annotator = annotate.Noop{}
	if !ing.RawMode && config.Cfg.OpenAI.Key != "" {
		annotator = annotate.OpenAI{}
	} else {
		logger.Warn("%v: entity annotation disabled", config.ModuleIngest)
	}

	source := extract.Dispatch{Raw: ing.RawMode}
	return pipeline.NewAssembler(source, annotator, splitter, ing.DedupWindow, ing.MinWords), nil
}

// collectDocuments gathers the user's files from uploaded document records
// (which may point at S3) and from the local data directory. A missing data
// directory yields zero documents, not an error. Remote files are staged to
// temp paths; the returned cleanup removes them.
func collectDocuments(ctx context.Context, db *gorm.DB, userID string) ([]pipeline.Document, []int64, func(), error) {
	var docs []pipeline.Document
	var regIDs []int64
	var cleanups []func()
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}
	seen := make(map[string]bool)

	registered, err := ListDocumentsByUser(db, userID)
	if err != nil {
		return nil, nil, cleanup, err
	}
	for _, rec := range registered {
		if rec.FilePath == nil || *rec.FilePath == "" {
			continue
		}
		filename := filepath.Base(*rec.FilePath)
		if rec.OriginalFilename != nil && *rec.OriginalFilename != "" {
			filename = *rec.OriginalFilename
		}
		path := *rec.FilePath
		if strings.HasPrefix(path, "s3://") {
			local, rm, err := FetchToLocalTemp(path)
			if err != nil {
				// Document-level failure; the run continues.
				logger.Error(err, "%v: fetch %s failed, skipping", config.ModuleIngest, filename)
				_ = UpdateDocumentStatus(ctx, rec.ID, "failed")
				continue
			}
			cleanups = append(cleanups, rm)
			path = local
		}
		docs = append(docs, pipeline.Document{Path: path, Filename: filename})
		regIDs = append(regIDs, rec.ID)
		seen[filename] = true
	}

	userDir := filepath.Join(config.Cfg.Paths.DataDir, userID)
	entries, err := os.ReadDir(userDir)
	if err != nil {
		if os.IsNotExist(err) {
			return docs, regIDs, cleanup, nil
		}
		return nil, nil, cleanup, err
	}
	for _, entry := range entries {
		if entry.IsDir() || seen[entry.Name()] {
			continue
		}
		docs = append(docs, pipeline.Document{
			Path:     filepath.Join(userDir, entry.Name()),
			Filename: entry.Name(),
		})
	}
	return docs, regIDs, cleanup, nil
}

func markFailed(ctx context.Context, ids []int64) {
	for _, id := range ids {
		_ = UpdateDocumentStatus(ctx, id, "failed")
	}
}

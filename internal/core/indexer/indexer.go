package indexer

import (
	"context"
	"errors"
	"time"

	"ragdocs/config"
	ingestsvc "ragdocs/internal/services/ingest"
	"ragdocs/pkg/logger"
)

// RunIndexing loads the user's persisted chunk store, embeds every chunk and
// writes the vectors to Milvus keyed by (user_id, filename, chunk_id).
// A missing or empty store is a successful no-op.
func RunIndexing(ctx context.Context, userID string) error {
	store := ingestsvc.ChunkStore{Dir: config.Cfg.Paths.StorageDir}
	chunks, err := store.Load(userID)
	if err != nil {
		logger.Error(err, "%v: load chunk store failed", config.ModuleIndexer)
		return err
	}
	if len(chunks) == 0 {
		logger.Warn("%v: no chunks to index for user %s", config.ModuleIndexer, userID)
		return nil
	}

	inputs := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		inputs = append(inputs, ch.Text)
	}

	embedCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	vectors, err := EmbedOpenAI(embedCtx, inputs)
	if err != nil {
		logger.Error(err, "%v: embedding failed", config.ModuleIndexer)
		return err
	}
	if len(vectors) != len(chunks) {
		err := errors.New("embedding count mismatch")
		logger.Error(err, "%v: got %d vectors for %d chunks", config.ModuleIndexer, len(vectors), len(chunks))
		return err
	}

	collection, err := UpsertMilvusVectors(ctx, vectors, chunks)
	if err != nil {
		logger.Error(err, "%v: milvus upsert failed", config.ModuleIndexer)
		return err
	}

	logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"chunks":     len(chunks),
		"collection": collection,
	}).Info("indexer: run complete")
	return nil
}

package indexer

import (
	"context"
	"hash/fnv"
	"unicode/utf8"

	"ragdocs/config"
	"ragdocs/internal/core/pipeline"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const milvusVectorDim = 1536

const maxContentLength = 8192

// UpsertMilvusVectors ensures the collection exists and inserts one record
// per chunk. Primary keys derive deterministically from
// (user_id, filename, chunk_id) so re-indexing the same store overwrites
// rather than duplicates.
func UpsertMilvusVectors(ctx context.Context, vectors [][]float32, chunks []pipeline.Chunk) (string, error) {
	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return "", err
	}
	defer cli.Close()

	collection := config.Cfg.Milvus.Collection
	if collection == "" {
		collection = "chunks"
	}
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := createChunksCollection(ctx, cli, collection); err != nil {
			return "", err
		}
	}

	ids := make([]int64, len(chunks))
	userIDs := make([]string, len(chunks))
	filenames := make([]string, len(chunks))
	chunkIDs := make([]int64, len(chunks))
	pages := make([]int32, len(chunks))
	contents := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = chunkPrimaryKey(ch)
		userIDs[i] = ch.UserID
		filenames[i] = ch.Filename
		chunkIDs[i] = int64(ch.ChunkID)
		pages[i] = int32(ch.Page)
		contents[i] = truncateOnRune(ch.Text, maxContentLength)
	}

	colID := milvusentity.NewColumnInt64("id", ids)
	colUser := milvusentity.NewColumnVarChar("user_id", userIDs)
	colFile := milvusentity.NewColumnVarChar("filename", filenames)
	colChunk := milvusentity.NewColumnInt64("chunk_id", chunkIDs)
	colPage := milvusentity.NewColumnInt32("page_index", pages)
	colContent := milvusentity.NewColumnVarChar("content", contents)
	colVec := milvusentity.NewColumnFloatVector("embedding", milvusVectorDim, vectors)

	if _, err := cli.Insert(ctx, collection, "", colID, colUser, colFile, colChunk, colPage, colContent, colVec); err != nil {
		return "", err
	}
	return collection, nil
}

// truncateOnRune caps s at max bytes without splitting a multi-byte UTF-8
// sequence; the cut falls back to the nearest earlier rune boundary.
func truncateOnRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// chunkPrimaryKey hashes the chunk's identity triple into a positive int64.
func chunkPrimaryKey(ch pipeline.Chunk) int64 {
	h := fnv.New64a()
	h.Write([]byte(ch.UserID))
	h.Write([]byte{0})
	h.Write([]byte(ch.Filename))
	h.Write([]byte{0})
	var buf [8]byte
	v := uint64(ch.ChunkID)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
	return int64(h.Sum64() &^ (1 << 63))
}

func createChunksCollection(ctx context.Context, cli milvusclient.Client, collection string) error {
	schema := milvusentity.NewSchema().WithName(collection).WithDescription("document chunks")
	schema.WithField(milvusentity.NewField().WithName("id").WithDataType(milvusentity.FieldTypeInt64).WithIsPrimaryKey(true))
	schema.WithField(milvusentity.NewField().WithName("user_id").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(64))
	schema.WithField(milvusentity.NewField().WithName("filename").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(512))
	schema.WithField(milvusentity.NewField().WithName("chunk_id").WithDataType(milvusentity.FieldTypeInt64))
	schema.WithField(milvusentity.NewField().WithName("page_index").WithDataType(milvusentity.FieldTypeInt32))
	schema.WithField(milvusentity.NewField().WithName("content").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(maxContentLength))
	schema.WithField(milvusentity.NewField().WithName("embedding").WithDataType(milvusentity.FieldTypeFloatVector).WithDim(milvusVectorDim))

	if err := cli.CreateCollection(ctx, schema, 2); err != nil {
		return err
	}

	hnsw := config.Cfg.Milvus.IndexHNSWConfig
	idx, err := milvusentity.NewIndexHNSW(milvusentity.MetricType(hnsw.MetricType), hnsw.M, hnsw.EfConstruction)
	if err != nil {
		return err
	}
	return cli.CreateIndex(ctx, collection, "embedding", idx, false)
}

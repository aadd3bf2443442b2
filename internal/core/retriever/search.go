package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ragdocs/config"
	"ragdocs/pkg/logger"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// SearchMilvus performs a vector similarity search and returns topK hits
// scoped to the filtered user.
func SearchMilvus(ctx context.Context, query []float32, topK int, filters Filters) ([]Hit, error) {
	if filters.UserID == "" {
		return nil, errors.New("user filter is required")
	}
	if topK <= 0 {
		topK = 8
	}
	if len(query) == 0 {
		return []Hit{}, nil
	}
	// Guard the search by a short timeout to keep latency bounds tight.
	timeout := 200 * time.Millisecond
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	collection := config.Cfg.Milvus.Collection
	if collection == "" {
		collection = "chunks"
	}

	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("collection %q not found", collection)
	}
	if err := cli.LoadCollection(ctx, collection, false); err != nil {
		return nil, err
	}

	metricType := milvusentity.MetricType(config.Cfg.Milvus.IndexHNSWConfig.MetricType)
	// Favor low latency locally; tune within 64-128 range
	ef := 64
	searchParam, err := milvusentity.NewIndexHNSWSearchParam(ef)
	if err != nil {
		return nil, err
	}

	expr := buildExpr(filters)
	outputFields := []string{"id", "user_id", "filename", "chunk_id", "page_index", "content"}
	var vectors []milvusentity.Vector
	vectors = append(vectors, milvusentity.FloatVector(query))

	start := time.Now()
	results, err := cli.Search(
		ctx,
		collection,
		nil, // partitions
		expr,
		outputFields,
		vectors,
		"embedding",
		metricType,
		topK,
		searchParam,
	)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error(err, "%v: milvus search failed", config.ModuleRetriever)
		return nil, err
	}
	logger.Info("%v: milvus search done in %dms", config.ModuleRetriever, elapsed.Milliseconds())

	if len(results) == 0 {
		return []Hit{}, nil
	}
	it := results[0]

	hits := make([]Hit, 0, it.ResultCount)
	for i := 0; i < it.ResultCount; i++ {
		var h Hit
		h.ID = it.IDs.(*milvusentity.ColumnInt64).Data()[i]
		h.Score = float32(it.Scores[i])

		for _, field := range it.Fields {
			switch col := field.(type) {
			case *milvusentity.ColumnInt64:
				if col.Name() == "chunk_id" {
					h.ChunkID = col.Data()[i]
				}
			case *milvusentity.ColumnInt32:
				if col.Name() == "page_index" {
					h.PageIndex = col.Data()[i]
				}
			case *milvusentity.ColumnVarChar:
				switch col.Name() {
				case "user_id":
					h.UserID = col.Data()[i]
				case "filename":
					h.Filename = col.Data()[i]
				case "content":
					h.Content = col.Data()[i]
				}
			}
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// buildExpr renders the boolean filter: always scoped by user_id, optionally
// narrowed to a set of filenames.
func buildExpr(f Filters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "user_id == %q", f.UserID)
	if len(f.Filenames) > 0 {
		b.WriteString(" and filename in [")
		for i, name := range f.Filenames {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%q", name)
		}
		b.WriteByte(']')
	}
	return b.String()
}

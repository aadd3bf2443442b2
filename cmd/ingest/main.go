package main

import (
	"context"
	"flag"
	"os"

	"ragdocs/config"
	"ragdocs/internal/core/indexer"
	"ragdocs/internal/services/ingest"
	"ragdocs/pkg/logger"
)

// Batch entrypoint: run the full ingest and index flow for one user without
// going through the HTTP surface.
func main() {
	var (
		userID = flag.String("user", "", "user to ingest documents for")
		force  = flag.Bool("force", false, "rebuild chunks even if they already exist")
		noIdx  = flag.Bool("skip-index", false, "stop after chunk assembly, do not index")
	)
	flag.Parse()

	if *userID == "" {
		logger.Errorf("%v: -user is required", config.ModuleIngest)
		os.Exit(2)
	}

	ctx := context.Background()
	if err := ingest.RunIngestion(ctx, *userID, *force); err != nil {
		logger.Error(err, "%v: ingestion failed for user %s", config.ModuleIngest, *userID)
		os.Exit(1)
	}
	if *noIdx {
		return
	}
	if err := indexer.RunIndexing(ctx, *userID); err != nil {
		logger.Error(err, "%v: indexing failed for user %s", config.ModuleIndexer, *userID)
		os.Exit(1)
	}
}

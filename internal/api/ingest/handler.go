package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"ragdocs/config"
	"ragdocs/internal/core/indexer"
	"ragdocs/internal/services/ingest"
	"ragdocs/pkg/apperror"
	"ragdocs/pkg/apperror/status"
	"ragdocs/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ingestResponse struct {
	UserID string `json:"user_id"`
}

// HandleIngest kicks off ingestion and indexing for a user's documents in the
// background and returns immediately.
func HandleIngest(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")
	if trackingID == "" {
		trackingID = uuid.NewString()
	}

	userID := strings.TrimSpace(c.Params("userID"))
	if userID == "" {
		return apperror.BadRequest(config.ModuleIngest, c, status.MissingParams, "userID is required")
	}
	if strings.ContainsAny(userID, "/\\") || userID != filepath.Base(userID) {
		return apperror.BadRequest(config.ModuleIngest, c, status.InvalidRequestBody, "invalid userID")
	}

	q := c.Query("force")
	force := q == "1" || q == "true" || q == "yes"

	// Fire and forget
	go func() {
		ctx := context.Background()
		if err := ingest.RunIngestion(ctx, userID, force); err != nil {
			logger.Error(err, "%v: background ingestion failed for user %s", config.ModuleIngest, userID)
			return
		}
		if err := indexer.RunIndexing(ctx, userID); err != nil {
			logger.Error(err, "%v: background indexing failed for user %s", config.ModuleIndexer, userID)
		}
	}()

	return apperror.Success(config.ModuleIngest, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "ingest started",
		TrackingID: trackingID,
		Data:       ingestResponse{UserID: userID},
	})
}

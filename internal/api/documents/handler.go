package documents

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ragdocs/config"
	"ragdocs/internal/database"
	"ragdocs/internal/database/model"
	"ragdocs/pkg/apperror"
	"ragdocs/pkg/apperror/status"
	s3client "ragdocs/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const presignExpiry = 15 * time.Minute

type downloadResponse struct {
	URL string `json:"url"`
}

// HandleDownload serves a registered document back to its owner: local files
// are streamed directly, S3 objects are answered with a presigned URL.
func HandleDownload(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")
	if trackingID == "" {
		trackingID = uuid.NewString()
	}

	docID, err := strconv.ParseInt(c.Params("docID"), 10, 64)
	if err != nil {
		return apperror.BadRequest(config.ModuleDocuments, c, status.InvalidRequestBody, "invalid docID")
	}

	ctx := context.Background()
	doc, err := database.GetEntityByID[model.Document](ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(config.ModuleDocuments, c, status.UploadDocumentMissing, "document not found")
		}
		return apperror.InternalError(config.ModuleDocuments, c, err)
	}
	if doc.FilePath == nil || *doc.FilePath == "" {
		return apperror.NotFound(config.ModuleDocuments, c, status.UploadDocumentMissing, "document has no stored file")
	}

	path := *doc.FilePath
	if strings.HasPrefix(path, "s3://") {
		u, err := url.Parse(path)
		if err != nil {
			return apperror.InternalError(config.ModuleDocuments, c, err)
		}
		presigner, err := s3client.GetPresignClient()
		if err != nil {
			return apperror.InternalError(config.ModuleDocuments, c, err)
		}
		req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(u.Host),
			Key:    aws.String(strings.TrimPrefix(u.Path, "/")),
		}, s3.WithPresignExpires(presignExpiry))
		if err != nil {
			return apperror.InternalError(config.ModuleDocuments, c, err)
		}
		return apperror.Success(config.ModuleDocuments, c, apperror.FiberSuccessMessage{
			Code:       status.OK,
			Message:    "download url issued",
			TrackingID: trackingID,
			Data:       downloadResponse{URL: req.URL},
		})
	}

	return c.SendFile(path)
}

// HandleDelete removes a document row along with its mirrored chunk rows.
// The vector index is rebuilt on the next ingestion run, not here.
func HandleDelete(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")
	if trackingID == "" {
		trackingID = uuid.NewString()
	}

	docID, err := strconv.ParseInt(c.Params("docID"), 10, 64)
	if err != nil {
		return apperror.BadRequest(config.ModuleDocuments, c, status.InvalidRequestBody, "invalid docID")
	}

	ctx := context.Background()
	doc, err := database.GetEntityByID[model.Document](ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(config.ModuleDocuments, c, status.UploadDocumentMissing, "document not found")
		}
		return apperror.InternalError(config.ModuleDocuments, c, err)
	}

	if doc.OriginalFilename != nil && *doc.OriginalFilename != "" {
		db, err := database.GetDB()
		if err != nil {
			return apperror.InternalError(config.ModuleDocuments, c, err)
		}
		if err := db.Where("user_id = ? AND filename = ?", doc.UserID, *doc.OriginalFilename).
			Delete(&model.Chunk{}).Error; err != nil {
			return apperror.InternalError(config.ModuleDocuments, c, err)
		}
	}
	if err := database.DeleteEntityByID[model.Document](ctx, docID); err != nil {
		return apperror.InternalError(config.ModuleDocuments, c, err)
	}

	return apperror.Success(config.ModuleDocuments, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "document deleted",
		TrackingID: trackingID,
	})
}

package upload

import (
	"crypto/sha256"
	"io"
	"path/filepath"
	"strings"
	"time"

	"ragdocs/config"
	"ragdocs/internal/core/extract"
	"ragdocs/internal/database"
	"ragdocs/internal/database/model"
	"ragdocs/pkg/apperror"
	"ragdocs/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type uploadResponse struct {
	DocID    int64  `json:"doc_id"`
	UserID   string `json:"user_id"`
	Filename string `json:"filename"`
}

// HandleUpload accepts a multipart document for a user and registers it for
// ingestion. The file is stored content-addressed by its sha256.
func HandleUpload(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")
	if trackingID == "" {
		trackingID = uuid.NewString()
	}

	userID := strings.TrimSpace(c.FormValue("user_id"))
	if userID == "" {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "user_id is required")
	}
	if strings.ContainsAny(userID, "/\\") || userID != filepath.Base(userID) {
		return apperror.BadRequest(config.ModuleUpload, c, status.InvalidRequestBody, "invalid user_id")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "file is required")
	}
	if fh == nil || fh.Size == 0 {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "empty file")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !config.Cfg.Ingest.RawMode && !extract.SupportedExtensions[ext] {
		return apperror.BadRequest(config.ModuleUpload, c, status.IngestUnsupportedFormat, "unsupported file format "+ext)
	}

	file, err := fh.Open()
	if err != nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.InvalidRequestBody, "cannot open file")
	}
	defer file.Close()

	db, err := database.GetDB()
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}

	// Hash while streaming to the storage backend
	hasher := sha256.New()
	tee := io.TeeReader(file, hasher)

	useS3 := strings.TrimSpace(config.Cfg.S3.Bucket) != ""

	var storedPath, shaHex string
	if useS3 {
		storedPath, shaHex, err = storeToS3(tee, fh, hasher)
	} else {
		storedPath, shaHex, err = storeToLocal(tee, fh, hasher)
	}
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, status.New(status.UploadStoreFailed, err))
	}

	original := fh.Filename
	now := time.Now()
	doc := model.Document{
		UserID:           userID,
		OriginalFilename: &original,
		FilePath:         &storedPath,
		Sha256:           &shaHex,
		Status:           "uploaded",
		UploadedAt:       &now,
	}
	if err := db.Create(&doc).Error; err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}

	return apperror.Success(config.ModuleUpload, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "file uploaded",
		TrackingID: trackingID,
		Data:       uploadResponse{DocID: doc.ID, UserID: userID, Filename: original},
	})
}

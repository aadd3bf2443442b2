package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"ragdocs/internal/core/pipeline"
	"ragdocs/internal/database"
	"ragdocs/internal/database/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func ListDocumentsByUser(db *gorm.DB, userID string) ([]model.Document, error) {
	var docs []model.Document
	if err := db.Where("user_id = ?", userID).Order("id").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func HasChunks(db *gorm.DB, userID string) (bool, error) {
	var count int64
	if err := db.Model(&model.Chunk{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func DeleteChunksByUser(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&model.Chunk{}).Error
}

func UpdateDocumentStatus(ctx context.Context, docID int64, status string) error {
	return database.UpdateEntityByID[model.Document](ctx, docID, map[string]interface{}{"status": status})
}

// InsertChunks mirrors the assembled chunk sequence into the database. The
// JSON chunk store stays authoritative; these rows exist for inspection and
// joins against documents.
func InsertChunks(db *gorm.DB, userID string, chunks []pipeline.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	now := time.Now()
	records := make([]model.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		preview := buildContentPreview(ch.Text, 512)
		h := sha256.Sum256([]byte(ch.Text))
		hash := hex.EncodeToString(h[:])

		var entities datatypes.JSON
		if len(ch.Entities) > 0 {
			raw, err := json.Marshal(ch.Entities)
			if err != nil {
				return err
			}
			entities = datatypes.JSON(raw)
		}

		records = append(records, model.Chunk{
			UserID:         userID,
			Filename:       ch.Filename,
			ChunkID:        ch.ChunkID,
			BlockType:      ch.Type,
			PageIndex:      ch.Page,
			Content:        ch.Text,
			ContentPreview: &preview,
			ContentHash:    hash,
			Entities:       entities,
			CreatedAt:      &now,
		})
	}
	return db.Create(&records).Error
}

// buildContentPreview sanitizes the preview to valid UTF-8 printable
// characters and truncates by runes to avoid splitting multi-byte sequences.
func buildContentPreview(s string, maxRunes int) string {
	var b strings.Builder
	b.Grow(len(s))
	count := 0
	for _, r := range s {
		if r == '\uFEFF' { // BOM
			continue
		}
		if r == '\n' || r == '\t' || r == '\r' {
			// keep common whitespace
		} else if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		count++
		if count >= maxRunes {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one uploaded source file owned by a user. Status moves
// uploaded -> processing -> ready/failed across an ingestion run.
type Document struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           string     `gorm:"size:64;index" json:"user_id"`
	OriginalFilename *string    `gorm:"size:512" json:"original_filename"`
	FilePath         *string    `gorm:"size:1024" json:"file_path"`
	Sha256           *string    `gorm:"size:64" json:"sha256"`
	Status           string     `gorm:"size:32;default:uploaded" json:"status"`
	UploadedAt       *time.Time `json:"uploaded_at"`
}

// Chunk mirrors one persisted chunk record; the JSON chunk store stays the
// authoritative per-run artifact, these rows exist for inspection and joins.
type Chunk struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string         `gorm:"size:64;index:idx_chunks_user_file" json:"user_id"`
	Filename       string         `gorm:"size:512;index:idx_chunks_user_file" json:"filename"`
	ChunkID        int            `json:"chunk_id"`
	BlockType      string         `gorm:"size:32" json:"block_type"`
	PageIndex      int            `json:"page_index"`
	Content        string         `gorm:"type:mediumtext" json:"content"`
	ContentPreview *string        `gorm:"size:512" json:"content_preview"`
	ContentHash    string         `gorm:"size:64" json:"content_hash"`
	Entities       datatypes.JSON `json:"entities"`
	CreatedAt      *time.Time     `json:"created_at"`
}

// Message is one turn of a query conversation: user question, assistant
// answer, or a retrieved context snippet.
type Message struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string     `gorm:"size:64;index" json:"user_id"`
	Role      string     `gorm:"size:16" json:"role"`
	Content   string     `gorm:"type:mediumtext" json:"content"`
	Filename  *string    `gorm:"size:512" json:"filename"`
	CreatedAt *time.Time `json:"created_at"`
}

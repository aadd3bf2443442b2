package pipeline

// BlockType classifies a layout block extracted from a document.
type BlockType string

const (
	BlockTitle      BlockType = "title"
	BlockText       BlockType = "text"
	BlockTable      BlockType = "table"
	BlockList       BlockType = "list"
	BlockFigure     BlockType = "figure"
	BlockPageHeader BlockType = "page-header"
	BlockPageFooter BlockType = "page-footer"
)

// Entity is a named-entity annotation attached to a block's content.
// Two entities are the same iff both Text and Label match.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Block is one extracted unit of document content. Blocks flow through the
// filtering and merging stages in source order; stages may drop or merge
// blocks but never reorder survivors.
type Block struct {
	Type     BlockType `json:"type"`
	Text     string    `json:"text"`
	Page     int       `json:"page"`
	Y        float64   `json:"y"`
	Filename string    `json:"filename"`
	UserID   string    `json:"user_id"`
	Entities []Entity  `json:"entities,omitempty"`
}

// Chunk is one final, size-bounded unit of text persisted for downstream
// embedding and retrieval. Immutable once emitted by the assembler.
type Chunk struct {
	Filename string   `json:"filename"`
	ChunkID  int      `json:"chunk_id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Page     int      `json:"page"`
	Entities []Entity `json:"entities,omitempty"`
	UserID   string   `json:"user_id"`
}

package query

type Request struct {
	UserID    string   `json:"user_id"`
	Question  string   `json:"question"`
	Filenames []string `json:"filenames"`
	TopK      int      `json:"top_k"`
}

type ContextSnippet struct {
	Filename string `json:"filename"`
	ChunkID  int64  `json:"chunk_id"`
	Page     int32  `json:"page"`
	Snippet  string `json:"snippet"`
}

type Response struct {
	Answer   string           `json:"answer"`
	Contexts []ContextSnippet `json:"contexts"`
}

package retriever

// Filters constrains a search. UserID is mandatory; results never cross user
// boundaries. Filenames optionally narrows to specific source files.
type Filters struct {
	UserID    string
	Filenames []string
}

// Hit is a single search result from Milvus with associated metadata.
type Hit struct {
	ID        int64
	Score     float32
	UserID    string
	Filename  string
	ChunkID   int64
	PageIndex int32
	Content   string
}

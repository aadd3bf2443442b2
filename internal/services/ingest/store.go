package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ragdocs/internal/core/pipeline"
)

// ChunkStore persists the final chunk list of one user as a JSON file,
// fully replaced on each successful run. Writes go through a temp file and
// rename so a crash mid-write leaves the previous store intact.
type ChunkStore struct {
	Dir string
}

func (s ChunkStore) path(userID string) (string, error) {
	if userID == "" || strings.ContainsAny(userID, `/\`) || userID != filepath.Base(userID) {
		return "", fmt.Errorf("invalid user id %q", userID)
	}
	return filepath.Join(s.Dir, fmt.Sprintf("chunks_%s.json", userID)), nil
}

// Save overwrites the user's chunk store with the given sequence.
func (s ChunkStore) Save(userID string, chunks []pipeline.Chunk) error {
	path, err := s.path(userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "chunks-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if chunks == nil {
		chunks = []pipeline.Chunk{}
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chunks); err != nil {
		return fmt.Errorf("encode chunks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flush chunk store: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalize chunk store: %w", err)
	}
	return nil
}

// Load reads the user's chunk store. A missing store is not an error; it
// yields an empty sequence.
func (s ChunkStore) Load(userID string) ([]pipeline.Chunk, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read chunk store: %w", err)
	}
	var chunks []pipeline.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("decode chunk store: %w", err)
	}
	return chunks, nil
}

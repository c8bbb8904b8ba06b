package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// FileStore keeps the seen-set as a JSON array of URLs in a single file.
// The file is overwritten in place on every Save.
type FileStore struct {
	filePath string
	mu       sync.Mutex
}

// NewFileStore creates a store backed by filePath.
func NewFileStore(filePath string) *FileStore {
	return &FileStore{filePath: filePath}
}

func (s *FileStore) Path() string {
	return s.filePath
}

// Load returns an empty set when the file does not exist or is empty.
// Malformed JSON is an error.
func (s *FileStore) Load(_ context.Context) (*SeenSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSeenSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seen-set file %s: %w", s.filePath, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return NewSeenSet(), nil
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("failed to parse seen-set file %s: %w", s.filePath, err)
	}

	return NewSeenSet(urls...), nil
}

// Save writes the set as an indented JSON array in insertion order.
func (s *FileStore) Save(_ context.Context, set *SeenSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set.URLs()); err != nil {
		return fmt.Errorf("failed to marshal seen-set: %w", err)
	}

	if err := os.WriteFile(s.filePath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write seen-set file %s: %w", s.filePath, err)
	}

	return nil
}

package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// BlobStore persists document bytes and returns a durable locator.
// Put is idempotent per key: a re-upload for the same request
// overwrites the previous object.
type BlobStore interface {
	Put(key string, data []byte) (string, error)
}

// DiskBlobStore writes documents to a local directory and serves them
// under a public /documents path.
type DiskBlobStore struct {
	dir     string
	baseURL string
}

// NewDiskBlobStore creates a blob store rooted at DOCUMENT_DIR
// (default ./documents).
func NewDiskBlobStore() (*DiskBlobStore, error) {
	dir := os.Getenv("DOCUMENT_DIR")
	if dir == "" {
		dir = "documents"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}

	baseURL := os.Getenv("DOCUMENT_BASE_URL")
	if baseURL == "" {
		baseURL = "/documents"
	}

	return &DiskBlobStore{dir: dir, baseURL: baseURL}, nil
}

func (s *DiskBlobStore) Put(key string, data []byte) (string, error) {
	name := key + ".pdf"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + name, nil
}

// Dir returns the directory documents are written to (for static serving).
func (s *DiskBlobStore) Dir() string { return s.dir }

// MemoryBlobStore keeps documents in a map (tests only).
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Put(key string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return "/documents/" + key + ".pdf", nil
}

// Get returns a stored blob (test assertions).
func (s *MemoryBlobStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	return b, ok
}

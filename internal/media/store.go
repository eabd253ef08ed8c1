package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ObjectStore persists image blobs under a key and returns a public URL for
// serving them.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// FileStore implements ObjectStore on the local filesystem. Stored objects
// are served by the HTTP server under /media/.
type FileStore struct {
	dir           string
	publicBaseURL string
}

// NewFileStore creates a filesystem-backed object store rooted at dir.
func NewFileStore(dir, publicBaseURL string) *FileStore {
	return &FileStore{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Dir returns the root directory objects are written under.
func (s *FileStore) Dir() string {
	return s.dir
}

// Put writes the blob under the given key and returns its public URL.
func (s *FileStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	dest := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}

	log.Debug().
		Str("key", key).
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("Stored media object")

	return s.publicBaseURL + path.Join("/media/", key), nil
}

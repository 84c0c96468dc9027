// Package storage provides CV object storage: uploaded documents are
// persisted under opaque names and served back through a public URL.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SavedObject describes a stored CV document.
type SavedObject struct {
	// Name is the opaque object name, unique per submission.
	Name string
	// PublicURL is where the document can be fetched by downstream
	// consumers. The intake core treats it as opaque.
	PublicURL string
}

// Store persists CV documents and issues public links for them.
type Store interface {
	Save(ctx context.Context, buf []byte, extension string) (SavedObject, error)
}

// LocalStore keeps CV documents on the local filesystem and serves them
// through the API server's /files/ route.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the storage directory if needed. baseURL is the
// externally reachable address of the API server.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory documents are stored in.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the document under a fresh uuid-stem name and returns its
// public URL.
func (s *LocalStore) Save(_ context.Context, buf []byte, extension string) (SavedObject, error) {
	name := uuid.NewString() + strings.ToLower(extension)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return SavedObject{}, fmt.Errorf("failed to store CV file: %w", err)
	}

	return SavedObject{
		Name:      name,
		PublicURL: s.baseURL + "/files/" + name,
	}, nil
}

// Reference derives the submission reference from a stored object name:
// the uuid stem without the extension.
func Reference(objectName string) string {
	return strings.TrimSuffix(objectName, filepath.Ext(objectName))
}

// Package file provides file-based persistence: one JSON document per record under
// <root>/<collection>/<id>.json.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/docstore"
)

// Store implements docstore.Store on the file system.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given directory; a file:// prefix is accepted.
func NewStore(root string) *Store {
	return &Store{root: strings.Replace(root, "file://", "", 1)}
}

// NewPersistence creates a new file persistence with the specified root directory.
func NewPersistence(root string) *docstore.Persistence {
	return docstore.New(NewStore(root))
}

// Root returns the directory documents are written under.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) Get(_ context.Context, collection, id string) ([]byte, error) {
	filePath, err := s.documentPath(collection, id)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.ErrNotFound
		}

		return nil, fmt.Errorf("failed to read %s %s: %w", collection, id, err)
	}

	return body, nil
}

func (s *Store) Put(_ context.Context, collection, id string, data []byte) error {
	filePath, err := s.documentPath(collection, id)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(filePath), 0750)
	if err != nil {
		return fmt.Errorf("failed to create %s directory: %w", collection, err)
	}

	// Write then rename so readers never see a half written document.
	tmp := filePath + ".tmp"

	err = os.WriteFile(tmp, data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write %s %s: %w", collection, id, err)
	}

	return os.Rename(tmp, filePath)
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	filePath, err := s.documentPath(collection, id)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s %s: %w", collection, id, err)
	}

	return nil
}

func (s *Store) List(_ context.Context, collection string) ([][]byte, error) {
	root := os.DirFS(filepath.Join(s.root, collection))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s files: %w", collection, err)
	}

	bodies := make([][]byte, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		body, err := fs.ReadFile(root, file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		bodies = append(bodies, body)
	}

	return bodies, nil
}

// HealthCheck creates the root directory if needed and verifies it is a directory.
func (s *Store) HealthCheck(_ context.Context) error {
	err := os.MkdirAll(s.root, 0750)
	if err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) documentPath(collection, id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid document id %q", id)
	}

	return filepath.Join(s.root, collection, id+".json"), nil
}

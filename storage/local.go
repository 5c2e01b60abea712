package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalArchive implements Archive on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new local archive instance
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalArchive{
		basePath: basePath,
	}, nil
}

// Save stores decision text on disk
func (a *LocalArchive) Save(ctx context.Context, citationNr string, text io.Reader) error {
	fullPath := filepath.Join(a.basePath, archiveKey(citationNr))

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, text); err != nil {
		os.Remove(fullPath) // Clean up on error
		return fmt.Errorf("failed to write archive file: %w", err)
	}

	return nil
}

// Load retrieves decision text from disk
func (a *LocalArchive) Load(ctx context.Context, citationNr string) (io.ReadCloser, error) {
	fullPath := filepath.Join(a.basePath, archiveKey(citationNr))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("decision not archived: %s", citationNr)
		}
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}

	return file, nil
}

// Delete removes an archived decision from disk
func (a *LocalArchive) Delete(ctx context.Context, citationNr string) error {
	fullPath := filepath.Join(a.basePath, archiveKey(citationNr))

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete archive file: %w", err)
	}

	return nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sproutly/greenhouse/common/logger"
)

// Store persists uploaded blobs and returns publicly resolvable URLs
type Store interface {
	Save(ctx context.Context, originalName string, data []byte) (string, error)
}

// LocalStore writes blobs to a local directory served under /uploads
type LocalStore struct {
	dir     string
	baseURL string
	log     *logger.Logger
}

// NewLocalStore creates the storage directory if needed
func NewLocalStore(dir, publicBaseURL string, log *logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		log:     log,
	}, nil
}

// Dir returns the directory blobs are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the blob under a timestamp-prefixed name and returns its public URL
func (s *LocalStore) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(originalName))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Error("failed to write blob", "path", path, "error", err)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := fmt.Sprintf("%s/uploads/%s", s.baseURL, name)
	s.log.Debug("blob stored", "name", name, "bytes", len(data))
	return url, nil
}

// sanitizeName strips path separators and whitespace from client filenames
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)

	if name == "" || name == "." {
		name = "upload.jpg"
	}
	return name
}

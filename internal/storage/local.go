package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// LocalModelStore serves stock models from a directory of jpg/png files.
// Ids are positional (model1..modelN) over the sorted file list, matching
// the public image URLs served from the static mount.
type LocalModelStore struct {
	dir       string
	publicURL string
}

// NewLocalModelStore builds a directory-backed store. publicURL is the URL
// prefix under which the directory is served (e.g. /modelsImages).
func NewLocalModelStore(dir, publicURL string) *LocalModelStore {
	return &LocalModelStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}
}

// List returns the catalog in filename order.
func (s *LocalModelStore) List(_ context.Context) ([]domain.StockModel, error) {
	files, err := s.imageFiles()
	if err != nil {
		return nil, err
	}

	models := make([]domain.StockModel, 0, len(files))
	for i, file := range files {
		models = append(models, domain.StockModel{
			ID:    fmt.Sprintf("model%d", i+1),
			Name:  fmt.Sprintf("Model %d", i+1),
			Image: s.publicURL + "/" + file,
		})
	}
	return models, nil
}

// Open returns the image bytes and content type for a model id.
func (s *LocalModelStore) Open(_ context.Context, id string) (io.ReadCloser, string, error) {
	files, err := s.imageFiles()
	if err != nil {
		return nil, "", err
	}

	index, err := strconv.Atoi(strings.TrimPrefix(id, "model"))
	if err != nil || index < 1 || index > len(files) {
		return nil, "", ErrModelNotFound
	}

	name := files[index-1]
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, "", err
	}
	return f, contentTypeFor(name), nil
}

func (s *LocalModelStore) imageFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

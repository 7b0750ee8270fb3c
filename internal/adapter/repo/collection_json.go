package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"imagecreator/internal/domain"
)

// CollectionStore implements domain.CollectionRepository on a JSON file,
// with the same temp-file-plus-rename write discipline as the asset library.
// Collections always live in their own file, even when assets go to
// Postgres; the membership lists are small and read far more than written.
type CollectionStore struct {
	mu          sync.Mutex
	path        string
	collections []domain.Collection
}

// NewCollectionStore loads the store at path, starting empty when the file
// does not exist yet.
func NewCollectionStore(path string) (*CollectionStore, error) {
	s := &CollectionStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("repo: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.collections); err != nil {
		return nil, fmt.Errorf("repo: parse %s: %w", path, err)
	}
	return s, nil
}

// NewMemoryCollections returns a store that never touches disk.
func NewMemoryCollections() *CollectionStore {
	return &CollectionStore{}
}

func (s *CollectionStore) Append(ctx context.Context, c *domain.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = append(s.collections, *c)
	return s.persistLocked()
}

func (s *CollectionStore) All(ctx context.Context) ([]domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Collection, len(s.collections))
	copy(out, s.collections)
	return out, nil
}

func (s *CollectionStore) Get(ctx context.Context, id string) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collections {
		if s.collections[i].ID == id {
			c := s.collections[i]
			return &c, nil
		}
	}
	return nil, domain.ErrCollectionNotFound
}

func (s *CollectionStore) Update(ctx context.Context, id string, mutate func(*domain.Collection) error) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collections {
		if s.collections[i].ID != id {
			continue
		}
		updated := s.collections[i]
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		s.collections[i] = updated
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		c := updated
		return &c, nil
	}
	return nil, domain.ErrCollectionNotFound
}

func (s *CollectionStore) persistLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.collections, "", "  ")
	if err != nil {
		return fmt.Errorf("repo: encode collections: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("repo: ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".collections-*.json")
	if err != nil {
		return fmt.Errorf("repo: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("repo: write collections: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("repo: close collections: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("repo: replace collections: %w", err)
	}
	return nil
}

var _ domain.CollectionRepository = (*CollectionStore)(nil)

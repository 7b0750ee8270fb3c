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

// JSONStore implements domain.AssetRepository on a single JSON file. It is
// the default backend for development and single-node deployments; writes go
// through a temp file plus rename so a crash never truncates the library.
type JSONStore struct {
	mu     sync.Mutex
	path   string
	assets []domain.ImageAsset
}

// NewJSONStore loads the store at path, starting empty when the file does
// not exist yet.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}
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
	if err := json.Unmarshal(data, &s.assets); err != nil {
		return nil, fmt.Errorf("repo: parse %s: %w", path, err)
	}
	return s, nil
}

func (s *JSONStore) Append(ctx context.Context, a *domain.ImageAsset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append(s.assets, *a)
	return s.persistLocked()
}

func (s *JSONStore) All(ctx context.Context) ([]domain.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ImageAsset, len(s.assets))
	copy(out, s.assets)
	return out, nil
}

func (s *JSONStore) Get(ctx context.Context, id string) (*domain.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assets {
		if s.assets[i].ID == id {
			a := s.assets[i]
			return &a, nil
		}
	}
	return nil, domain.ErrAssetNotFound
}

func (s *JSONStore) Update(ctx context.Context, id string, mutate func(*domain.ImageAsset) error) (*domain.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assets {
		if s.assets[i].ID != id {
			continue
		}
		updated := s.assets[i]
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		s.assets[i] = updated
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		a := updated
		return &a, nil
	}
	return nil, domain.ErrAssetNotFound
}

func (s *JSONStore) persistLocked() error {
	data, err := json.MarshalIndent(s.assets, "", "  ")
	if err != nil {
		return fmt.Errorf("repo: encode library: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("repo: ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return fmt.Errorf("repo: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("repo: write library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("repo: close library: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("repo: replace library: %w", err)
	}
	return nil
}

var _ domain.AssetRepository = (*JSONStore)(nil)

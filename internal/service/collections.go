package service

import (
	"context"
	"errors"
	"strings"

	"imagecreator/internal/domain"
)

const maxCollectionName = 100

// CollectionSummary is a collection plus its member count, for listings.
type CollectionSummary struct {
	domain.Collection
	ImageCount int `json:"image_count"`
}

// CollectionDetail is a collection expanded with its member records.
type CollectionDetail struct {
	domain.Collection
	Images     []domain.ImageAsset `json:"images"`
	ImageCount int                 `json:"image_count"`
}

// CreateCollection starts an empty named collection.
func (s *Service) CreateCollection(ctx context.Context, name string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validationf("name", "is required")
	}
	if len(name) > maxCollectionName {
		return nil, domain.Validationf("name", "must be at most %d characters", maxCollectionName)
	}
	c := domain.Collection{
		ID:        s.newID(),
		Name:      name,
		ImageIDs:  []string{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.collections.Append(ctx, &c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("collection_id", c.ID).Str("name", c.Name).Msg("collection created")
	return &c, nil
}

// Collections lists every collection, newest first.
func (s *Service) Collections(ctx context.Context) ([]CollectionSummary, error) {
	all, err := s.collections.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CollectionSummary, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, CollectionSummary{Collection: all[i], ImageCount: len(all[i].ImageIDs)})
	}
	return out, nil
}

// Collection loads one collection with its member records in membership
// order. Members whose asset records have gone missing are skipped.
func (s *Service) Collection(ctx context.Context, id string) (*CollectionDetail, error) {
	c, err := s.collections.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	images := make([]domain.ImageAsset, 0, len(c.ImageIDs))
	for _, imageID := range c.ImageIDs {
		asset, err := s.repo.Get(ctx, imageID)
		if err != nil {
			if errors.Is(err, domain.ErrAssetNotFound) {
				continue
			}
			return nil, err
		}
		images = append(images, *asset)
	}
	return &CollectionDetail{Collection: *c, Images: images, ImageCount: len(images)}, nil
}

// AddToCollection appends an asset to a collection. Adding a member that is
// already present is a no-op, not an error.
func (s *Service) AddToCollection(ctx context.Context, collectionID, imageID string) (*domain.Collection, error) {
	if _, err := s.repo.Get(ctx, imageID); err != nil {
		return nil, err
	}
	return s.collections.Update(ctx, collectionID, func(c *domain.Collection) error {
		if !c.Contains(imageID) {
			c.ImageIDs = append(append([]string(nil), c.ImageIDs...), imageID)
		}
		return nil
	})
}

// RemoveFromCollection drops an asset from a collection. Removing an absent
// member is a no-op, not an error.
func (s *Service) RemoveFromCollection(ctx context.Context, collectionID, imageID string) (*domain.Collection, error) {
	return s.collections.Update(ctx, collectionID, func(c *domain.Collection) error {
		kept := c.ImageIDs[:0:0]
		for _, id := range c.ImageIDs {
			if id != imageID {
				kept = append(kept, id)
			}
		}
		c.ImageIDs = kept
		return nil
	})
}

package domain

import (
	"context"
	"time"
)

// Collection is a named grouping of library assets. Membership is kept in
// insertion order and an asset may belong to any number of collections.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageIDs  []string  `json:"image_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether the collection already holds the asset id.
func (c *Collection) Contains(imageID string) bool {
	for _, id := range c.ImageIDs {
		if id == imageID {
			return true
		}
	}
	return false
}

// CollectionRepository stores collections in insertion order.
type CollectionRepository interface {
	Append(ctx context.Context, c *Collection) error
	All(ctx context.Context) ([]Collection, error)
	Get(ctx context.Context, id string) (*Collection, error)
	Update(ctx context.Context, id string, mutate func(*Collection) error) (*Collection, error)
}

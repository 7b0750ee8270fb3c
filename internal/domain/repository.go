package domain

import "context"

// AssetRepository is the append-mostly record store behind the lineage
// graph. Append must be atomic with respect to concurrent appends; the
// store is treated as durable by the time a call returns. All returns
// records ordered oldest-first, ties broken by insertion order.
type AssetRepository interface {
	Append(ctx context.Context, asset *ImageAsset) error
	All(ctx context.Context) ([]ImageAsset, error)
	Get(ctx context.Context, id string) (*ImageAsset, error)
	Update(ctx context.Context, id string, mutate func(*ImageAsset) error) (*ImageAsset, error)
}

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"imagecreator/internal/domain"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
// Insertion order is preserved through a bigserial sequence column so ties
// on created_at stay deterministic.
type AssetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepositoryPG {
	return &AssetRepositoryPG{pool: pool}
}

// EnsureSchema creates the assets table when it does not exist.
func (r *AssetRepositoryPG) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS assets (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    parent_id TEXT NOT NULL DEFAULT '',
    group_id TEXT NOT NULL DEFAULT '',
    prompt TEXT NOT NULL DEFAULT '',
    enhanced_prompt TEXT NOT NULL DEFAULT '',
    style TEXT NOT NULL DEFAULT '',
    width INT NOT NULL DEFAULT 0,
    height INT NOT NULL DEFAULT 0,
    kind TEXT NOT NULL DEFAULT '',
    metadata JSONB NOT NULL DEFAULT '{}',
    legacy JSONB NOT NULL DEFAULT '{}',
    filename TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    favorited BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS assets_parent_id_idx ON assets (parent_id);
`)
	return err
}

const assetColumns = `id, parent_id, group_id, prompt, enhanced_prompt, style, width, height, kind, metadata, legacy, filename, model, favorited, created_at`

// Append inserts one asset record.
func (r *AssetRepositoryPG) Append(ctx context.Context, a *domain.ImageAsset) error {
	metadata, legacy, err := encodeAssetJSON(a)
	if err != nil {
		return err
	}
	query := `
INSERT INTO assets (` + assetColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`
	_, err = r.pool.Exec(ctx, query,
		a.ID,
		a.ParentID,
		a.GroupID,
		a.Prompt,
		a.EnhancedPrompt,
		a.Style,
		a.Width,
		a.Height,
		string(a.Kind),
		metadata,
		legacy,
		a.Filename,
		a.Model,
		a.Favorited,
		a.CreatedAt,
	)
	return err
}

// All returns every asset, oldest first, ties broken by insertion order.
func (r *AssetRepositoryPG) All(ctx context.Context) ([]domain.ImageAsset, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+assetColumns+`
FROM assets
ORDER BY created_at ASC, seq ASC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.ImageAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// Get fetches an asset by its identifier.
func (r *AssetRepositoryPG) Get(ctx context.Context, id string) (*domain.ImageAsset, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+assetColumns+`
FROM assets
WHERE id = $1;
`, id)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

// Update applies mutate to the row under a transaction and persists it.
func (r *AssetRepositoryPG) Update(ctx context.Context, id string, mutate func(*domain.ImageAsset) error) (*domain.ImageAsset, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
SELECT `+assetColumns+`
FROM assets
WHERE id = $1
FOR UPDATE;
`, id)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	if err := mutate(asset); err != nil {
		return nil, err
	}
	metadata, legacy, err := encodeAssetJSON(asset)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `
UPDATE assets
SET parent_id = $2, group_id = $3, prompt = $4, enhanced_prompt = $5, style = $6,
    width = $7, height = $8, kind = $9, metadata = $10, legacy = $11,
    filename = $12, model = $13, favorited = $14
WHERE id = $1;
`,
		asset.ID,
		asset.ParentID,
		asset.GroupID,
		asset.Prompt,
		asset.EnhancedPrompt,
		asset.Style,
		asset.Width,
		asset.Height,
		string(asset.Kind),
		metadata,
		legacy,
		asset.Filename,
		asset.Model,
		asset.Favorited,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return asset, nil
}

func encodeAssetJSON(a *domain.ImageAsset) ([]byte, []byte, error) {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("repo: encode metadata: %w", err)
	}
	legacy, err := json.Marshal(a.Legacy)
	if err != nil {
		return nil, nil, fmt.Errorf("repo: encode legacy markers: %w", err)
	}
	return metadata, legacy, nil
}

func scanAsset(row pgx.Row) (*domain.ImageAsset, error) {
	var a domain.ImageAsset
	var kind string
	var metadata, legacy []byte
	if err := row.Scan(
		&a.ID,
		&a.ParentID,
		&a.GroupID,
		&a.Prompt,
		&a.EnhancedPrompt,
		&a.Style,
		&a.Width,
		&a.Height,
		&kind,
		&metadata,
		&legacy,
		&a.Filename,
		&a.Model,
		&a.Favorited,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Kind = domain.OperationKind(kind)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, fmt.Errorf("repo: decode metadata: %w", err)
		}
	}
	if len(legacy) > 0 {
		if err := json.Unmarshal(legacy, &a.Legacy); err != nil {
			return nil, fmt.Errorf("repo: decode legacy markers: %w", err)
		}
	}
	return &a, nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)

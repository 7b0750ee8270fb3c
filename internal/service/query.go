package service

import (
	"context"
	"fmt"
	"strings"

	"imagecreator/internal/adapter/repo"
	"imagecreator/internal/canvas"
	"imagecreator/internal/domain"
	"imagecreator/internal/lineage"
	imgprov "imagecreator/internal/providers/image"
	"imagecreator/pkg/zip"
)

// List returns the whole library, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.ImageAsset, error) {
	return s.repo.All(ctx)
}

// Favorites returns only favorited assets, oldest first.
func (s *Service) Favorites(ctx context.Context) ([]domain.ImageAsset, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.ImageAsset
	for _, a := range all {
		if a.Favorited {
			out = append(out, a)
		}
	}
	return out, nil
}

// Get fetches one asset record.
func (s *Service) Get(ctx context.Context, id string) (*domain.ImageAsset, error) {
	return s.repo.Get(ctx, id)
}

// AssetFile loads the image bytes behind an asset.
func (s *Service) AssetFile(ctx context.Context, id string) ([]byte, error) {
	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.sourceBytes(ctx, asset)
}

// AssetFileAs loads the image bytes behind an asset, transcoded to the
// requested format. Supported formats are png (the stored encoding, served
// as-is) and jpg; an empty format means png. WebP export is not offered
// because no encoder is wired in.
func (s *Service) AssetFileAs(ctx context.Context, id, format string) ([]byte, string, error) {
	data, err := s.AssetFile(ctx, id)
	if err != nil {
		return nil, "", err
	}
	switch strings.ToLower(format) {
	case "", "png":
		return data, "image/png", nil
	case "jpg", "jpeg":
		img, err := canvas.Decode(data)
		if err != nil {
			return nil, "", err
		}
		out, err := canvas.EncodeJPEG(img, 90)
		if err != nil {
			return nil, "", err
		}
		return out, "image/jpeg", nil
	default:
		return nil, "", domain.Validationf("format", "unsupported format %q, use png or jpg", format)
	}
}

// AnimationFile loads the rendered GIF attached to an asset.
func (s *Service) AnimationFile(ctx context.Context, id string) ([]byte, error) {
	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Metadata.Animation == nil {
		return nil, fmt.Errorf("%w: no animation rendered for %s", domain.ErrSourceFileMissing, id)
	}
	return s.store.Read(ctx, asset.Metadata.Animation.Filename)
}

// Undo returns the asset's parent, the state before its last operation.
func (s *Service) Undo(ctx context.Context, id string) (*domain.ImageAsset, error) {
	return s.graph.Undo(ctx, id)
}

// Redo returns the most recent child of an asset.
func (s *Service) Redo(ctx context.Context, id string) (*domain.ImageAsset, error) {
	return s.graph.Redo(ctx, id)
}

// History returns the operation chain from root to the asset.
func (s *Service) History(ctx context.Context, id string) ([]lineage.HistoryEntry, error) {
	return s.graph.History(ctx, id)
}

// Children lists an asset's direct descendants.
func (s *Service) Children(ctx context.Context, id string) ([]domain.ImageAsset, error) {
	return s.graph.Children(ctx, id)
}

// Archive bundles the files behind the given asset ids into a zip. Assets
// whose files are missing are skipped rather than failing the download.
func (s *Service) Archive(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, domain.Validationf("ids", "at least one asset id is required")
	}
	var entries []zip.Asset
	for _, id := range ids {
		asset, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		data, err := s.sourceBytes(ctx, asset)
		if err != nil {
			s.logger.Warn().Err(err).Str("asset_id", id).Msg("skipping asset in archive")
			continue
		}
		entries = append(entries, zip.Asset{Filename: fmt.Sprintf("%s.png", asset.ID), Data: data})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("archive: no asset files available")
	}
	return zip.ArchiveAssets(entries)
}

// PromptHistory lists recently used prompts, newest first.
func (s *Service) PromptHistory(ctx context.Context) []repo.PromptEntry {
	return s.promptLog.Recent(ctx)
}

// Models lists the adapter names in their fallback order.
func (s *Service) Models() []string {
	return imgprov.Names(s.adapters)
}

// PromptSuggestions returns past prompts matching the query, newest first.
func (s *Service) PromptSuggestions(ctx context.Context, query string) []repo.PromptEntry {
	return s.promptLog.Suggest(ctx, query)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"imagecreator/internal/adapter/repo"
	"imagecreator/internal/batch"
	"imagecreator/internal/canvas"
	"imagecreator/internal/domain"
	"imagecreator/internal/fallback"
	"imagecreator/internal/infra"
	"imagecreator/internal/lineage"
	imgprov "imagecreator/internal/providers/image"
	"imagecreator/internal/providers/prompt"
	"imagecreator/internal/storage"
)

// Service orchestrates generation, editing and library management. All
// public methods validate their inputs and return domain errors the HTTP
// layer can map to status codes.
type Service struct {
	logger      *infra.Logger
	repo        domain.AssetRepository
	store       *storage.FileStore
	adapters    []imgprov.Adapter
	enricher    prompt.Enricher
	merger      prompt.Merger
	graph       *lineage.Graph
	batches     *batch.Coordinator
	promptLog   *repo.PromptLog
	collections domain.CollectionRepository
	preferred   string

	now   func() time.Time
	newID func() string
}

// Options wires the service's collaborators.
type Options struct {
	Logger         *infra.Logger
	Repo           domain.AssetRepository
	Store          *storage.FileStore
	Adapters       []imgprov.Adapter
	Enricher       prompt.Enricher
	Merger         prompt.Merger
	PromptLog      *repo.PromptLog
	Collections    domain.CollectionRepository
	PreferredModel string
	BatchWorkers   int
}

func New(opts Options) *Service {
	promptLog := opts.PromptLog
	if promptLog == nil {
		promptLog = repo.NewPromptLog()
	}
	collections := opts.Collections
	if collections == nil {
		collections = repo.NewMemoryCollections()
	}
	return &Service{
		logger:      opts.Logger,
		repo:        opts.Repo,
		store:       opts.Store,
		adapters:    imgprov.Reorder(opts.Adapters, opts.PreferredModel),
		enricher:    opts.Enricher,
		merger:      opts.Merger,
		graph:       lineage.NewGraph(opts.Repo),
		batches:     batch.NewCoordinator(opts.Logger, opts.BatchWorkers),
		promptLog:   promptLog,
		collections: collections,
		preferred:   opts.PreferredModel,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// GenerateRequest parameterizes text-to-image generation.
type GenerateRequest struct {
	Prompt string
	Style  string
	Size   string
	Count  int
	Model  string
}

// Generate produces count images for the prompt, one unit per image run
// concurrently on the shared worker pool. Successes are returned alongside
// per-unit failure messages; only a run with zero successes is an error.
// When count is greater than one the assets share a group id.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) ([]domain.ImageAsset, []string, error) {
	userPrompt, err := validatePrompt(req.Prompt)
	if err != nil {
		return nil, nil, err
	}
	size, err := normalizeSize(req.Size)
	if err != nil {
		return nil, nil, err
	}
	count, err := validateCount(req.Count)
	if err != nil {
		return nil, nil, err
	}

	styled := applyStyle(userPrompt, req.Style)
	enriched := prompt.EnrichOrOriginal(ctx, s.logger, s.enricher, styled)
	s.promptLog.Record(ctx, userPrompt, req.Style)

	groupID := ""
	if count > 1 {
		groupID = s.newID()
	}

	slots := s.batches.Run(ctx, count, func(ctx context.Context, i int) (domain.ImageAsset, error) {
		data, model, err := s.synthesize(ctx, req.Model, enriched, size)
		if err != nil {
			return domain.ImageAsset{}, err
		}
		asset, err := s.saveAsset(ctx, data, size, domain.ImageAsset{
			GroupID:        groupID,
			Prompt:         userPrompt,
			EnhancedPrompt: enriched,
			Style:          req.Style,
			Kind:           domain.OpOriginal,
			Model:          model,
		})
		if err != nil {
			return domain.ImageAsset{}, err
		}
		return *asset, nil
	})

	var assets []domain.ImageAsset
	var failures []string
	for i, slot := range slots {
		if slot.Err != nil {
			s.logger.Warn().Err(slot.Err).Int("variant", i).Msg("variant generation failed")
			failures = append(failures, fmt.Sprintf("variant %d: %v", i, slot.Err))
			continue
		}
		assets = append(assets, slot.Asset)
	}
	if len(assets) == 0 {
		if len(slots) > 0 {
			return nil, failures, slots[0].Err
		}
		return nil, failures, fmt.Errorf("generate: no variants requested")
	}
	return assets, failures, nil
}

// CompareResult is one adapter's output for the same prompt.
type CompareResult struct {
	Model string             `json:"model"`
	Asset *domain.ImageAsset `json:"asset,omitempty"`
	Error string             `json:"error,omitempty"`
}

// Compare generates the same prompt once per adapter, pinned, one unit per
// adapter on the shared worker pool. Individual adapter failures are
// reported in the result rather than failing the call; only a total failure
// is an error.
func (s *Service) Compare(ctx context.Context, rawPrompt, style, size string) ([]CompareResult, error) {
	userPrompt, err := validatePrompt(rawPrompt)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeSize(size)
	if err != nil {
		return nil, err
	}
	styled := applyStyle(userPrompt, style)
	enriched := prompt.EnrichOrOriginal(ctx, s.logger, s.enricher, styled)

	groupID := s.newID()
	slots := s.batches.Run(ctx, len(s.adapters), func(ctx context.Context, i int) (domain.ImageAsset, error) {
		adapter := s.adapters[i]
		data, err := adapter.Synthesize(ctx, enriched, normalized)
		if err != nil {
			return domain.ImageAsset{}, err
		}
		asset, err := s.saveAsset(ctx, data, normalized, domain.ImageAsset{
			GroupID:        groupID,
			Prompt:         userPrompt,
			EnhancedPrompt: enriched,
			Style:          style,
			Kind:           domain.OpOriginal,
			Model:          adapter.Name(),
		})
		if err != nil {
			return domain.ImageAsset{}, err
		}
		return *asset, nil
	})

	results := make([]CompareResult, len(slots))
	succeeded := 0
	for i, slot := range slots {
		res := CompareResult{Model: s.adapters[i].Name()}
		if slot.Err != nil {
			s.logger.Warn().Err(slot.Err).Str("model", res.Model).Msg("compare generation failed")
			res.Error = slot.Err.Error()
		} else {
			asset := slot.Asset
			res.Asset = &asset
			succeeded++
		}
		results[i] = res
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("compare: every model failed")
	}
	return results, nil
}

// Refine regenerates an asset with an edit instruction folded into its
// prompt. The result is stored as a child of the original.
func (s *Service) Refine(ctx context.Context, id, instruction string) (*domain.ImageAsset, error) {
	instruction, err := validatePrompt(instruction)
	if err != nil {
		return nil, domain.Validationf("instruction", "is required")
	}
	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	base := parent.EnhancedPrompt
	if base == "" {
		base = parent.Prompt
	}
	merged := prompt.MergeOrConcat(ctx, s.logger, s.merger, base, instruction)
	size := closestSize(parent.Width, parent.Height)

	data, model, err := s.synthesize(ctx, "", merged, size)
	if err != nil {
		return nil, err
	}
	return s.saveAsset(ctx, data, size, domain.ImageAsset{
		ParentID:       parent.ID,
		Prompt:         parent.Prompt,
		EnhancedPrompt: merged,
		Style:          parent.Style,
		Kind:           domain.OpRefine,
		Model:          model,
		Metadata: domain.OperationMetadata{
			Refine: &domain.RefineMeta{OriginalPrompt: base, Instruction: instruction},
		},
	})
}

// synthesize runs the adapter chain for one image, honoring an explicit
// model pin for this request.
func (s *Service) synthesize(ctx context.Context, pinned, enrichedPrompt, size string) ([]byte, string, error) {
	adapters := imgprov.Reorder(s.adapters, pinned)
	attempts := make([]fallback.Attempt, len(adapters))
	for i, adapter := range adapters {
		adapter := adapter
		attempts[i] = fallback.Attempt{
			Name: adapter.Name(),
			Run: func(ctx context.Context) ([]byte, error) {
				return adapter.Synthesize(ctx, enrichedPrompt, size)
			},
		}
	}
	return fallback.First(ctx, *s.logger, attempts)
}

// saveAsset normalizes raw model output to the requested size, writes the
// file and appends the library record. Normalization failures are hard
// errors; a mis-sized asset must never enter the library.
func (s *Service) saveAsset(ctx context.Context, data []byte, size string, tpl domain.ImageAsset) (*domain.ImageAsset, error) {
	w, h := parseSize(size)
	normalized, err := canvas.Normalize(data, w, h)
	if err != nil {
		return nil, fmt.Errorf("normalize output: %w", err)
	}
	return s.saveRaw(ctx, normalized, w, h, tpl)
}

// saveRaw writes bytes that are already at their final dimensions.
func (s *Service) saveRaw(ctx context.Context, data []byte, w, h int, tpl domain.ImageAsset) (*domain.ImageAsset, error) {
	asset := tpl
	asset.ID = s.newID()
	asset.Width = w
	asset.Height = h
	asset.CreatedAt = s.now().UTC()
	asset.Filename = fmt.Sprintf("images/%s.png", asset.ID)

	if _, err := s.store.Write(ctx, asset.Filename, data); err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, &asset); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("asset_id", asset.ID).
		Str("kind", string(asset.Kind)).
		Str("model", asset.Model).
		Msg("asset stored")
	return &asset, nil
}

// sourceBytes loads the stored file behind an asset.
func (s *Service) sourceBytes(ctx context.Context, asset *domain.ImageAsset) ([]byte, error) {
	data, err := s.store.Read(ctx, asset.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceFileMissing, asset.Filename)
		}
		return nil, err
	}
	return data, nil
}

package service

import (
	"context"

	"imagecreator/internal/domain"
)

// BatchRequest generates one image per prompt with shared settings.
type BatchRequest struct {
	Prompts []string
	Style   string
	Size    string
	Model   string
}

// BatchGenerate runs the batch synchronously and returns the successes plus
// per-item error messages. Every batch item becomes an asset in the shared
// group.
func (s *Service) BatchGenerate(ctx context.Context, req BatchRequest) ([]domain.ImageAsset, []string, error) {
	gen, prompts, err := s.batchItem(req)
	if err != nil {
		return nil, nil, err
	}
	return s.batches.RunAll(ctx, prompts, gen)
}

// BatchSubmit starts the batch in the background and returns its job id.
func (s *Service) BatchSubmit(ctx context.Context, req BatchRequest) (string, error) {
	gen, prompts, err := s.batchItem(req)
	if err != nil {
		return "", err
	}
	return s.batches.SubmitJob(ctx, prompts, gen), nil
}

// BatchJob returns the current snapshot of a background batch.
func (s *Service) BatchJob(ctx context.Context, id string) (domain.BatchJob, error) {
	return s.batches.Job(id)
}

func (s *Service) batchItem(req BatchRequest) (func(context.Context, string) (domain.ImageAsset, error), []string, error) {
	prompts, err := validateBatchPrompts(req.Prompts)
	if err != nil {
		return nil, nil, err
	}
	size, err := normalizeSize(req.Size)
	if err != nil {
		return nil, nil, err
	}
	groupID := s.newID()

	gen := func(ctx context.Context, userPrompt string) (domain.ImageAsset, error) {
		styled := applyStyle(userPrompt, req.Style)
		data, model, err := s.synthesize(ctx, req.Model, styled, size)
		if err != nil {
			return domain.ImageAsset{}, err
		}
		asset, err := s.saveAsset(ctx, data, size, domain.ImageAsset{
			GroupID: groupID,
			Prompt:  userPrompt,
			Style:   req.Style,
			Kind:    domain.OpBatchItem,
			Model:   model,
		})
		if err != nil {
			return domain.ImageAsset{}, err
		}
		s.promptLog.Record(ctx, userPrompt, req.Style)
		return *asset, nil
	}
	return gen, prompts, nil
}

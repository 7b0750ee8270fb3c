package service

import (
	"context"
	"fmt"
	"strings"

	"imagecreator/internal/canvas"
	"imagecreator/internal/domain"
	"imagecreator/internal/fallback"
	imgprov "imagecreator/internal/providers/image"
	"imagecreator/internal/providers/prompt"
)

// editChain tries progressively simpler ways to apply an edit: a masked edit
// per adapter, then a maskless edit per adapter, then plain regeneration
// from the prompt. The first stage that produces an image wins.
func (s *Service) editChain(ctx context.Context, adapters []imgprov.Adapter, src, mask []byte, editPrompt, size string) ([]byte, string, error) {
	var attempts []fallback.Attempt
	if len(mask) > 0 {
		for _, a := range adapters {
			a := a
			attempts = append(attempts, fallback.Attempt{
				Name: a.Name() + "/mask-edit",
				Run: func(ctx context.Context) ([]byte, error) {
					return a.Edit(ctx, src, mask, editPrompt, size)
				},
			})
		}
	}
	for _, a := range adapters {
		a := a
		attempts = append(attempts, fallback.Attempt{
			Name: a.Name() + "/edit",
			Run: func(ctx context.Context) ([]byte, error) {
				return a.Edit(ctx, src, nil, editPrompt, size)
			},
		})
	}
	for _, a := range adapters {
		a := a
		attempts = append(attempts, fallback.Attempt{
			Name: a.Name() + "/regenerate",
			Run: func(ctx context.Context) ([]byte, error) {
				return a.Synthesize(ctx, editPrompt, size)
			},
		})
	}
	data, winner, err := fallback.First(ctx, *s.logger, attempts)
	if err != nil {
		return nil, "", err
	}
	model, _, _ := strings.Cut(winner, "/")
	return data, model, nil
}

// Inpaint edits the masked region of an asset. Bright mask pixels mark the
// region to change; the mask is converted to the alpha convention edit
// backends expect before the call.
func (s *Service) Inpaint(ctx context.Context, id string, maskPNG []byte, instruction string) (*domain.ImageAsset, error) {
	instruction, err := validatePrompt(instruction)
	if err != nil {
		return nil, domain.Validationf("instruction", "is required")
	}
	if len(maskPNG) == 0 {
		return nil, domain.Validationf("mask", "is required")
	}
	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, parent)
	if err != nil {
		return nil, err
	}
	alphaMask, err := canvas.MaskToAlpha(maskPNG, parent.Width, parent.Height)
	if err != nil {
		return nil, fmt.Errorf("prepare mask: %w", err)
	}

	base := parent.EnhancedPrompt
	if base == "" {
		base = parent.Prompt
	}
	merged := prompt.MergeOrConcat(ctx, s.logger, s.merger, base, instruction)
	size := closestSize(parent.Width, parent.Height)

	data, model, err := s.editChain(ctx, s.adapters, src, alphaMask, merged, size)
	if err != nil {
		return nil, err
	}
	return s.saveAsset(ctx, data, size, domain.ImageAsset{
		ParentID:       parent.ID,
		Prompt:         parent.Prompt,
		EnhancedPrompt: merged,
		Style:          parent.Style,
		Kind:           domain.OpInpaint,
		Model:          model,
		Metadata: domain.OperationMetadata{
			Refine: &domain.RefineMeta{OriginalPrompt: base, Instruction: instruction},
		},
	})
}

// RemoveBackground isolates the subject on a plain white background.
func (s *Service) RemoveBackground(ctx context.Context, id string) (*domain.ImageAsset, error) {
	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, parent)
	if err != nil {
		return nil, err
	}
	editPrompt := "Remove the background completely. Keep the main subject exactly as it is and place it on a plain white background."
	size := closestSize(parent.Width, parent.Height)

	data, model, err := s.editChain(ctx, s.adapters, src, nil, editPrompt, size)
	if err != nil {
		return nil, err
	}
	return s.saveAsset(ctx, data, size, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Style:    parent.Style,
		Kind:     domain.OpBackgroundRemoval,
		Model:    model,
	})
}

// StyleTransfer repaints an asset in the named style. Strength scales how
// strongly the wording pushes the model away from the source.
func (s *Service) StyleTransfer(ctx context.Context, id, style string, strength float64) (*domain.ImageAsset, error) {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil, domain.Validationf("style", "is required")
	}
	if err := validateRange("strength", strength, 0.1, 1.0); err != nil {
		return nil, err
	}
	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, parent)
	if err != nil {
		return nil, err
	}

	intensity := "subtly"
	if strength >= 0.7 {
		intensity = "completely"
	} else if strength >= 0.4 {
		intensity = "noticeably"
	}
	editPrompt := fmt.Sprintf("Repaint this image %s in %s style while keeping the original composition and subjects.", intensity, style)
	size := closestSize(parent.Width, parent.Height)

	data, model, err := s.editChain(ctx, s.adapters, src, nil, editPrompt, size)
	if err != nil {
		return nil, err
	}
	return s.saveAsset(ctx, data, size, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Style:    style,
		Kind:     domain.OpStyleTransfer,
		Model:    model,
		Metadata: domain.OperationMetadata{
			Style: &domain.StyleMeta{Strength: strength, Description: style},
		},
	})
}

// ReplaceObject swaps one named object for another. Only the gpt-image
// family handles the instruction reliably, so the chain is restricted to it
// when available.
func (s *Service) ReplaceObject(ctx context.Context, id, target, replacement string, preserveStyle bool) (*domain.ImageAsset, error) {
	target = strings.TrimSpace(target)
	replacement = strings.TrimSpace(replacement)
	if target == "" {
		return nil, domain.Validationf("target", "is required")
	}
	if replacement == "" {
		return nil, domain.Validationf("replacement", "is required")
	}
	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, parent)
	if err != nil {
		return nil, err
	}

	editPrompt := fmt.Sprintf("Replace the %s with %s. Leave everything else unchanged.", target, replacement)
	if preserveStyle {
		editPrompt += " Match the lighting, perspective and artistic style of the original image."
	}
	size := closestSize(parent.Width, parent.Height)

	data, model, err := s.editChain(ctx, s.replacementAdapters(), src, nil, editPrompt, size)
	if err != nil {
		return nil, err
	}
	return s.saveAsset(ctx, data, size, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Style:    parent.Style,
		Kind:     domain.OpObjectReplacement,
		Model:    model,
		Metadata: domain.OperationMetadata{
			Replacement: &domain.ReplacementMeta{
				TargetObject:  target,
				Replacement:   replacement,
				PreserveStyle: preserveStyle,
			},
		},
	})
}

func (s *Service) replacementAdapters() []imgprov.Adapter {
	for _, a := range s.adapters {
		if a.Name() == "gpt-image" {
			return []imgprov.Adapter{a}
		}
	}
	return s.adapters
}

// Outpaint extends the canvas beyond its borders in the chosen directions
// and asks a model to fill in the new regions. The result is stored at the
// exact extended size.
func (s *Service) Outpaint(ctx context.Context, id string, directions []string, amountPct float64) (*domain.ImageAsset, error) {
	dirs, err := canvas.ParseDirections(directions)
	if err != nil {
		return nil, domain.Validationf("directions", "%v", err)
	}
	if err := validateRange("amount_pct", amountPct, 10, 100); err != nil {
		return nil, err
	}
	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, parent)
	if err != nil {
		return nil, err
	}

	ext, newW, newH := canvas.OutpaintSize(parent.Width, parent.Height, dirs, amountPct)
	extended, mask, err := canvas.ExtendCanvas(src, ext)
	if err != nil {
		return nil, fmt.Errorf("extend canvas: %w", err)
	}

	editPrompt := "Extend the image seamlessly into the blank border regions, continuing the existing scene, style and lighting."
	if parent.Prompt != "" {
		editPrompt = fmt.Sprintf("%s The scene depicts: %s.", editPrompt, parent.Prompt)
	}
	size := closestSize(newW, newH)

	data, model, err := s.editChain(ctx, s.adapters, extended, mask, editPrompt, size)
	if err != nil {
		return nil, err
	}
	normalized, err := canvas.Normalize(data, newW, newH)
	if err != nil {
		return nil, fmt.Errorf("normalize output: %w", err)
	}
	dirNames := make([]string, len(dirs))
	for i, d := range dirs {
		dirNames[i] = string(d)
	}
	return s.saveRaw(ctx, normalized, newW, newH, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Style:    parent.Style,
		Kind:     domain.OpOutpaint,
		Model:    model,
		Metadata: domain.OperationMetadata{
			Outpaint: &domain.OutpaintMeta{Directions: dirNames, AmountPct: amountPct},
		},
	})
}

// ProductPhoto turns an uploaded product shot into a staged photo. The
// result enters the library as a new root asset.
func (s *Service) ProductPhoto(ctx context.Context, upload []byte, background string) (*domain.ImageAsset, error) {
	if len(upload) == 0 {
		return nil, domain.Validationf("image", "is required")
	}
	w, h, err := canvas.Dimensions(upload)
	if err != nil {
		return nil, domain.Validationf("image", "must be a decodable image: %v", err)
	}
	background = strings.TrimSpace(background)
	if background == "" {
		background = "a clean studio surface with soft shadows"
	}

	editPrompt := fmt.Sprintf("Turn this into a professional product photograph. Place the product on %s with studio lighting and sharp focus.", background)
	size := closestSize(w, h)

	data, model, err := s.editChain(ctx, s.adapters, upload, nil, editPrompt, size)
	if err != nil {
		return nil, err
	}
	return s.saveAsset(ctx, data, size, domain.ImageAsset{
		Prompt: editPrompt,
		Kind:   domain.OpProductPhoto,
		Model:  model,
	})
}

// GenerateWithPreset generates from a prompt with a named style preset
// applied, recording the preset on the asset.
func (s *Service) GenerateWithPreset(ctx context.Context, rawPrompt, preset, size string) (*domain.ImageAsset, error) {
	userPrompt, err := validatePrompt(rawPrompt)
	if err != nil {
		return nil, err
	}
	if _, ok := styleSuffixes[preset]; !ok {
		return nil, domain.Validationf("preset", "unknown style preset %q", preset)
	}
	normalized, err := normalizeSize(size)
	if err != nil {
		return nil, err
	}

	styled := applyStyle(userPrompt, preset)
	enriched := prompt.EnrichOrOriginal(ctx, s.logger, s.enricher, styled)
	s.promptLog.Record(ctx, userPrompt, preset)

	data, model, err := s.synthesize(ctx, "", enriched, normalized)
	if err != nil {
		return nil, err
	}
	return s.saveAsset(ctx, data, normalized, domain.ImageAsset{
		Prompt:         userPrompt,
		EnhancedPrompt: enriched,
		Style:          preset,
		Kind:           domain.OpStylePreset,
		Model:          model,
	})
}

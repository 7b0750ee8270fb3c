package service

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"imagecreator/internal/canvas"
	"imagecreator/internal/domain"
)

// Upscale resizes an asset by an integer factor. Purely local, no model
// involved.
func (s *Service) Upscale(ctx context.Context, id string, factor int) (*domain.ImageAsset, error) {
	if err := validateUpscaleFactor(factor); err != nil {
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
	data, err := canvas.Upscale(src, factor)
	if err != nil {
		return nil, fmt.Errorf("upscale: %w", err)
	}
	return s.saveRaw(ctx, data, parent.Width*factor, parent.Height*factor, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Style:    parent.Style,
		Kind:     domain.OpUpscale,
		Metadata: domain.OperationMetadata{
			Upscale: &domain.UpscaleMeta{Factor: factor},
		},
	})
}

// AdjustRequest carries enhancement factors. A factor of 1.0 leaves that
// channel untouched; blur is an absolute radius.
type AdjustRequest struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Sharpness  float64
	Blur       float64
}

// Adjust applies local tonal adjustments and stores the result as a child.
func (s *Service) Adjust(ctx context.Context, id string, req AdjustRequest) (*domain.ImageAsset, error) {
	for field, v := range map[string]float64{
		"brightness": req.Brightness,
		"contrast":   req.Contrast,
		"saturation": req.Saturation,
		"sharpness":  req.Sharpness,
	} {
		if err := validateRange(field, v, 0, 2); err != nil {
			return nil, err
		}
	}
	if err := validateRange("blur", req.Blur, 0, 10); err != nil {
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
	data, err := canvas.Adjust(src, canvas.AdjustLevels{
		Brightness: req.Brightness,
		Contrast:   req.Contrast,
		Saturation: req.Saturation,
		Sharpness:  req.Sharpness,
		Blur:       req.Blur,
	})
	if err != nil {
		return nil, fmt.Errorf("adjust: %w", err)
	}
	return s.saveRaw(ctx, data, parent.Width, parent.Height, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Style:    parent.Style,
		Kind:     domain.OpAdjust,
		Metadata: domain.OperationMetadata{
			Adjust: &domain.AdjustMeta{
				Brightness: req.Brightness,
				Contrast:   req.Contrast,
				Saturation: req.Saturation,
				Sharpness:  req.Sharpness,
				Blur:       req.Blur,
			},
		},
	})
}

// WatermarkRequest parameterizes text watermarking.
type WatermarkRequest struct {
	Text     string
	Position string
	Opacity  float64
	FontSize int
}

// Watermark stamps text onto an asset.
func (s *Service) Watermark(ctx context.Context, id string, req WatermarkRequest) (*domain.ImageAsset, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domain.Validationf("text", "is required")
	}
	pos, err := canvas.ParsePosition(req.Position)
	if err != nil {
		return nil, domain.Validationf("position", "%v", err)
	}
	if err := validateRange("opacity", req.Opacity, 0.1, 1.0); err != nil {
		return nil, err
	}
	if req.FontSize < 12 || req.FontSize > 200 {
		return nil, domain.Validationf("font_size", "must be between 12 and 200")
	}

	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, parent)
	if err != nil {
		return nil, err
	}
	data, err := canvas.Watermark(src, canvas.WatermarkOptions{
		Text:     text,
		Position: pos,
		Opacity:  req.Opacity,
		FontSize: req.FontSize,
		Color:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	})
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}
	return s.saveRaw(ctx, data, parent.Width, parent.Height, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Style:    parent.Style,
		Kind:     domain.OpWatermark,
		Metadata: domain.OperationMetadata{
			Watermark: &domain.WatermarkMeta{Text: text, Position: string(pos), Opacity: req.Opacity},
		},
	})
}

// DepthMap derives a pseudo depth map from an asset.
func (s *Service) DepthMap(ctx context.Context, id string) (*domain.ImageAsset, error) {
	parent, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, parent)
	if err != nil {
		return nil, err
	}
	data, err := canvas.DepthProxy(src)
	if err != nil {
		return nil, fmt.Errorf("depth map: %w", err)
	}
	return s.saveRaw(ctx, data, parent.Width, parent.Height, domain.ImageAsset{
		ParentID: parent.ID,
		Prompt:   parent.Prompt,
		Kind:     domain.OpDepthMap,
	})
}

// AnimateRequest parameterizes a GIF export.
type AnimateRequest struct {
	Effect   string
	Duration float64
	FPS      int
}

// Animate renders an animated GIF from an asset and attaches it to the
// asset's record. The GIF is an export, not a new library asset.
func (s *Service) Animate(ctx context.Context, id string, req AnimateRequest) (*domain.ImageAsset, error) {
	effect, err := canvas.ParseEffect(req.Effect)
	if err != nil {
		return nil, domain.Validationf("effect", "%v", err)
	}
	if err := validateRange("duration", req.Duration, 0.5, 10); err != nil {
		return nil, err
	}
	if req.FPS < 5 || req.FPS > 30 {
		return nil, domain.Validationf("fps", "must be between 5 and 30")
	}

	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.sourceBytes(ctx, asset)
	if err != nil {
		return nil, err
	}
	gif, err := canvas.AnimateGIF(src, effect, req.Duration, req.FPS)
	if err != nil {
		return nil, fmt.Errorf("animate: %w", err)
	}

	filename := fmt.Sprintf("animations/%s-%s.gif", asset.ID, effect)
	if _, err := s.store.Write(ctx, filename, gif); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, func(a *domain.ImageAsset) error {
		a.Metadata.Animation = &domain.AnimationMeta{
			Filename: filename,
			Effect:   string(effect),
			Duration: req.Duration,
			FPS:      req.FPS,
		}
		return nil
	})
}

// ToggleFavorite flips the favorite flag and returns the updated asset.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (*domain.ImageAsset, error) {
	return s.repo.Update(ctx, id, func(a *domain.ImageAsset) error {
		a.Favorited = !a.Favorited
		return nil
	})
}

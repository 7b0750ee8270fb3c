package domain

import "time"

// OperationKind tags the pipeline operation that produced an asset.
type OperationKind string

const (
	OpOriginal          OperationKind = "original"
	OpRefine            OperationKind = "refine"
	OpInpaint           OperationKind = "inpaint"
	OpUpscale           OperationKind = "upscale"
	OpAdjust            OperationKind = "adjust"
	OpBackgroundRemoval OperationKind = "background_removal"
	OpStyleTransfer     OperationKind = "style_transfer"
	OpWatermark         OperationKind = "watermark"
	OpOutpaint          OperationKind = "outpaint"
	OpDepthMap          OperationKind = "depth_map"
	OpObjectReplacement OperationKind = "object_replacement"
	OpProductPhoto      OperationKind = "product_photo"
	OpBatchItem         OperationKind = "batch_item"
	OpStylePreset       OperationKind = "style_preset"
)

// ImageAsset is one generated or derived raster image plus its metadata.
// Assets never mutate after creation except for Favorited and attached
// export metadata (e.g. a rendered animation).
type ImageAsset struct {
	ID             string            `json:"id"`
	ParentID       string            `json:"parent_id,omitempty"`
	GroupID        string            `json:"group_id,omitempty"`
	Prompt         string            `json:"prompt"`
	EnhancedPrompt string            `json:"enhanced_prompt,omitempty"`
	Style          string            `json:"style,omitempty"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Kind           OperationKind     `json:"kind,omitempty"`
	Metadata       OperationMetadata `json:"metadata,omitempty"`
	Filename       string            `json:"filename"`
	Model          string            `json:"model,omitempty"`
	Favorited      bool              `json:"favorited,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`

	// Legacy carries boolean edit markers found on records written before
	// Kind existed. ResolveKind folds them into a single tag.
	Legacy LegacyMarkers `json:"legacy,omitempty"`
}

// OperationMetadata is the variant-specific payload for an operation. Only
// the field matching the asset's Kind is set.
type OperationMetadata struct {
	Adjust      *AdjustMeta      `json:"adjust,omitempty"`
	Watermark   *WatermarkMeta   `json:"watermark,omitempty"`
	Outpaint    *OutpaintMeta    `json:"outpaint,omitempty"`
	Upscale     *UpscaleMeta     `json:"upscale,omitempty"`
	Replacement *ReplacementMeta `json:"replacement,omitempty"`
	Style       *StyleMeta       `json:"style_transfer,omitempty"`
	Refine      *RefineMeta      `json:"refine,omitempty"`
	Animation   *AnimationMeta   `json:"animation,omitempty"`
}

type AdjustMeta struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Sharpness  float64 `json:"sharpness"`
	Blur       float64 `json:"blur"`
}

type WatermarkMeta struct {
	Text     string  `json:"text"`
	Position string  `json:"position"`
	Opacity  float64 `json:"opacity"`
}

type OutpaintMeta struct {
	Directions []string `json:"directions"`
	AmountPct  float64  `json:"amount_pct"`
}

type UpscaleMeta struct {
	Factor int `json:"factor"`
}

type ReplacementMeta struct {
	TargetObject  string `json:"target_object"`
	Replacement   string `json:"replacement"`
	PreserveStyle bool   `json:"preserve_style"`
}

type StyleMeta struct {
	Strength    float64 `json:"strength"`
	Description string  `json:"description,omitempty"`
}

type RefineMeta struct {
	OriginalPrompt string `json:"original_prompt"`
	Instruction    string `json:"instruction"`
}

// AnimationMeta records a GIF export attached to an existing asset.
type AnimationMeta struct {
	Filename string  `json:"filename"`
	Effect   string  `json:"effect"`
	Duration float64 `json:"duration_seconds"`
	FPS      int     `json:"fps"`
}

// LegacyMarkers are the pre-Kind boolean edit flags. Their co-occurrence is
// technically possible but was always meant to be exclusive.
type LegacyMarkers struct {
	Outpainted        bool `json:"outpainted,omitempty"`
	Adjusted          bool `json:"adjusted,omitempty"`
	Upscaled          bool `json:"upscaled,omitempty"`
	BackgroundRemoved bool `json:"background_removed,omitempty"`
	StyleTransferred  bool `json:"style_transfer,omitempty"`
	Watermarked       bool `json:"watermarked,omitempty"`
	Inpainted         bool `json:"inpainted,omitempty"`
}

// ResolveKind returns the asset's operation tag. When Kind is unset the
// legacy markers are resolved with a fixed priority order: outpaint >
// adjust > upscale > background_removal > style_transfer > watermark >
// refine > original. The order mirrors how history entries were labeled
// before markers were replaced by Kind; it is a compatibility rule, not a
// behavior worth extending.
func (a ImageAsset) ResolveKind() OperationKind {
	if a.Kind != "" {
		return a.Kind
	}
	switch {
	case a.Legacy.Outpainted:
		return OpOutpaint
	case a.Legacy.Adjusted:
		return OpAdjust
	case a.Legacy.Upscaled:
		return OpUpscale
	case a.Legacy.BackgroundRemoved:
		return OpBackgroundRemoval
	case a.Legacy.StyleTransferred:
		return OpStyleTransfer
	case a.Legacy.Watermarked:
		return OpWatermark
	case a.Legacy.Inpainted:
		return OpInpaint
	case a.ParentID != "":
		return OpRefine
	default:
		return OpOriginal
	}
}

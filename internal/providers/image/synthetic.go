package image

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Synthetic renders deterministic placeholder images locally so the rest of
// the system works without gateway credentials. The palette derives from the
// prompt, so distinct prompts stay visually distinguishable.
type Synthetic struct{}

// NewSynthetic returns the local placeholder adapter.
func NewSynthetic() Adapter {
	return Synthetic{}
}

func (Synthetic) Name() string {
	return "synthetic"
}

func (s Synthetic) Synthesize(ctx context.Context, prompt, size string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := parseSize(size)
	top, bottom := promptPalette(prompt)

	img := imaging.New(w, h, color.NRGBA{A: 255})
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		row := color.NRGBA{
			R: mix8(top.R, bottom.R, t),
			G: mix8(top.G, bottom.G, t),
			B: mix8(top.B, bottom.B, t),
			A: 255,
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, row)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("synthetic: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Edit tints the source toward the prompt's palette, which keeps edit chains
// exercisable offline.
func (s Synthetic) Edit(ctx context.Context, src, mask []byte, prompt, size string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("synthetic: decode source: %w", err)
	}
	top, _ := promptPalette(prompt)
	tinted := imaging.AdjustFunc(imaging.Clone(img), func(c color.NRGBA) color.NRGBA {
		c.R = mix8(c.R, top.R, 0.25)
		c.G = mix8(c.G, top.G, 0.25)
		c.B = mix8(c.B, top.B, 0.25)
		return c
	})

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, tinted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("synthetic: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func promptPalette(prompt string) (color.NRGBA, color.NRGBA) {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	sum := h.Sum32()
	top := color.NRGBA{
		R: uint8(sum >> 24),
		G: uint8(sum >> 16),
		B: uint8(sum >> 8),
		A: 255,
	}
	bottom := color.NRGBA{R: top.B, G: top.R, B: top.G, A: 255}
	return top, bottom
}

func parseSize(size string) (int, int) {
	parts := strings.SplitN(size, "x", 2)
	if len(parts) == 2 {
		w, errW := strconv.Atoi(parts[0])
		h, errH := strconv.Atoi(parts[1])
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return 1024, 1024
}

func mix8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

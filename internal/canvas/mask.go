package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Intensity above which a mask pixel marks a region to regenerate.
const maskThreshold = 128

// MaskToAlpha converts a single-channel intensity mask into the RGBA alpha
// mask the edit API expects: pixels brighter than the midpoint become fully
// transparent (the region to regenerate) and everything else becomes opaque
// black. The mask is resampled to targetW x targetH first. The polarity
// (white = edit region) must not change.
func MaskToAlpha(mask []byte, targetW, targetH int) ([]byte, error) {
	img, err := Decode(mask)
	if err != nil {
		return nil, err
	}
	gray := imaging.Resize(imaging.Grayscale(img), targetW, targetH, imaging.Lanczos)

	out := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	for y := 0; y < targetH; y++ {
		for x := 0; x < targetW; x++ {
			if gray.NRGBAAt(x, y).R > maskThreshold {
				out.SetNRGBA(x, y, color.NRGBA{})
			} else {
				out.SetNRGBA(x, y, color.NRGBA{A: 0xff})
			}
		}
	}
	return EncodePNG(out)
}

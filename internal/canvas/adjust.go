package canvas

import (
	"image/color"

	"github.com/disintegration/imaging"
)

// AdjustLevels are multiplicative enhancement factors (1.0 = unchanged)
// plus a gaussian blur radius in pixels.
type AdjustLevels struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Sharpness  float64
	Blur       float64
}

// Adjust applies the levels in a fixed order: brightness, contrast,
// saturation, sharpness, blur.
func Adjust(data []byte, lv AdjustLevels) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	out := imaging.Clone(img)

	if lv.Brightness != 1.0 {
		f := lv.Brightness
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			c.R = clamp8(float64(c.R) * f)
			c.G = clamp8(float64(c.G) * f)
			c.B = clamp8(float64(c.B) * f)
			return c
		})
	}
	if lv.Contrast != 1.0 {
		out = imaging.AdjustContrast(out, (lv.Contrast-1)*100)
	}
	if lv.Saturation != 1.0 {
		out = imaging.AdjustSaturation(out, (lv.Saturation-1)*100)
	}
	if lv.Sharpness > 1.0 {
		out = imaging.Sharpen(out, lv.Sharpness-1)
	} else if lv.Sharpness < 1.0 {
		out = imaging.Blur(out, 1-lv.Sharpness)
	}
	if lv.Blur > 0 {
		out = imaging.Blur(out, lv.Blur)
	}
	return EncodePNG(out)
}

// Upscale resizes by an integer factor with Lanczos resampling.
func Upscale(data []byte, factor int) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	w := img.Bounds().Dx() * factor
	h := img.Bounds().Dy() * factor
	return EncodePNG(imaging.Resize(img, w, h, imaging.Lanczos))
}

func clamp8(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

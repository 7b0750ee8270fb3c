package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"

	"github.com/disintegration/imaging"
)

// Effect selects a parametric animation applied per frame.
type Effect string

const (
	EffectZoom   Effect = "zoom"
	EffectPan    Effect = "pan"
	EffectRotate Effect = "rotate"
	EffectPulse  Effect = "pulse"
	EffectFade   Effect = "fade"
)

// ParseEffect validates an animation effect name.
func ParseEffect(s string) (Effect, error) {
	switch Effect(s) {
	case EffectZoom, EffectPan, EffectRotate, EffectPulse, EffectFade:
		return Effect(s), nil
	default:
		return "", fmt.Errorf("invalid animation effect %q", s)
	}
}

// Frames never exceed this bounding dimension on either axis.
const maxFrameBound = 512

var rotateFill = color.NRGBA{A: 0xff}

// FrameCount returns the number of frames for a duration at the given
// frame rate.
func FrameCount(durationSec float64, fps int) int {
	n := int(math.Round(durationSec * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n
}

// AnimateGIF renders the effect over the source image into a looping GIF.
// Every frame is computed from the original full-resolution buffer (the
// effects are not cumulative), downscaled to fit the frame bound, and
// shown for a uniform 1000/fps milliseconds.
func AnimateGIF(data []byte, effect Effect, durationSec float64, fps int) ([]byte, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("animate: fps must be positive")
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	src := imaging.Clone(img)

	total := FrameCount(durationSec, fps)
	delay := int(math.Round(100.0 / float64(fps)))

	out := &gif.GIF{LoopCount: 0}
	for i := 0; i < total; i++ {
		t := 0.0
		if total > 1 {
			t = float64(i) / float64(total-1)
		}
		frame := imaging.Fit(renderFrame(src, effect, t), maxFrameBound, maxFrameBound, imaging.Lanczos)

		pal := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, frame.Bounds(), frame, image.Point{})
		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

func renderFrame(src *image.NRGBA, effect Effect, t float64) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	switch effect {
	case EffectZoom:
		return zoomFrame(src, 1+0.3*t)
	case EffectPulse:
		return zoomFrame(src, 1+0.1*math.Sin(2*math.Pi*t))
	case EffectPan:
		cropW := int(0.8 * float64(w))
		x0 := int(0.2 * float64(w) * t)
		crop := imaging.Crop(src, image.Rect(x0, 0, x0+cropW, h))
		return imaging.Resize(crop, w, h, imaging.Lanczos)
	case EffectRotate:
		angle := -5 + 10*t
		rotated := imaging.Rotate(src, angle, rotateFill)
		return imaging.CropCenter(rotated, w, h)
	case EffectFade:
		return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
			c.R = uint8(float64(c.R) * t)
			c.G = uint8(float64(c.G) * t)
			c.B = uint8(float64(c.B) * t)
			return c
		})
	}
	return imaging.Clone(src)
}

// zoomFrame crops a scale-sized centered window and resizes it back to the
// source dimensions. Scales below 1 need a window larger than the source,
// so the source is centered on a black canvas instead.
func zoomFrame(src *image.NRGBA, scale float64) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	cropW := int(float64(w) / scale)
	cropH := int(float64(h) / scale)

	var window *image.NRGBA
	if cropW <= w && cropH <= h {
		window = imaging.CropCenter(src, cropW, cropH)
	} else {
		window = imaging.PasteCenter(imaging.New(cropW, cropH, rotateFill), src)
	}
	return imaging.Resize(window, w, h, imaging.Lanczos)
}

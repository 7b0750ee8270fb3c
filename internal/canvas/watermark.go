package canvas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Position anchors watermark text on the image.
type Position string

const (
	PositionCenter      Position = "center"
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionTopRight    Position = "top-right"
	PositionTopLeft     Position = "top-left"
	PositionTiled       Position = "tiled"
)

// ParsePosition validates a watermark placement name.
func ParsePosition(s string) (Position, error) {
	switch Position(s) {
	case PositionCenter, PositionBottomRight, PositionBottomLeft,
		PositionTopRight, PositionTopLeft, PositionTiled:
		return Position(s), nil
	default:
		return "", fmt.Errorf("invalid watermark position %q", s)
	}
}

// WatermarkOptions parameterize text compositing. FontSize is the size for
// a reference-width image; the effective size scales with image width.
type WatermarkOptions struct {
	Text     string
	Position Position
	Opacity  float64
	FontSize int
	Color    color.NRGBA
}

const (
	// Font size is specified relative to this image width so perceived
	// weight stays constant across resolutions.
	watermarkReferenceWidth = 1024
	watermarkMinFontSize    = 16
	watermarkPadding        = 20
	watermarkTileGap        = 80
	// Shadow opacity never exceeds this, and never exceeds the text's own.
	watermarkMaxShadowAlpha = 180
)

var watermarkFont = mustParseFont(goregular.TTF)

func mustParseFont(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

// Watermark renders text onto the image at the requested anchor (or tiled
// at 45 degrees) and returns the flattened opaque PNG.
func Watermark(data []byte, opts WatermarkOptions) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	base := imaging.Clone(img)

	overlay, err := watermarkOverlay(base, opts)
	if err != nil {
		return nil, err
	}

	out := imaging.Overlay(base, overlay, image.Point{}, 1.0)
	// Flatten: drop any remaining transparency from the base image.
	out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
		c.A = 0xff
		return c
	})
	return EncodePNG(out)
}

// watermarkOverlay builds the transparent text layer sized to the base
// image. The layer is what gets alpha-composited onto the base; tests
// inspect it directly for exact alpha values before flattening.
func watermarkOverlay(base *image.NRGBA, opts WatermarkOptions) (*image.NRGBA, error) {
	w := base.Bounds().Dx()
	h := base.Bounds().Dy()

	scale := float64(w) / watermarkReferenceWidth
	px := int(float64(opts.FontSize) * scale)
	if px < watermarkMinFontSize {
		px = watermarkMinFontSize
	}

	face, err := opentype.NewFace(watermarkFont, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("watermark font face: %w", err)
	}
	defer face.Close()

	measure := &font.Drawer{Face: face}
	textW := measure.MeasureString(opts.Text).Ceil()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	alpha := uint8(255 * opts.Opacity)
	ink := color.NRGBA{R: opts.Color.R, G: opts.Color.G, B: opts.Color.B, A: alpha}

	shadowAlpha := alpha
	if shadowAlpha > watermarkMaxShadowAlpha {
		shadowAlpha = watermarkMaxShadowAlpha
	}
	// Dark images get a light shadow and vice versa so the text reads on
	// any background.
	shadow := color.NRGBA{A: shadowAlpha}
	if meanLuminance(base) < 128 {
		shadow = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: shadowAlpha}
	}

	offset := px / 20
	if offset < 2 {
		offset = 2
	}

	overlay := image.NewNRGBA(image.Rect(0, 0, w, h))
	stamp := func(x, y int) {
		paintText(overlay, face, opts.Text, x+offset, y+offset+ascent, shadow)
		paintText(overlay, face, opts.Text, x, y+ascent, ink)
	}

	if opts.Position == PositionTiled {
		// Cover twice the image bounds in both axes so the rotated layer
		// still fills every corner.
		for y := -h; y < 2*h; y += textH + watermarkTileGap {
			for x := -w; x < 2*w; x += textW + watermarkTileGap {
				stamp(x, y)
			}
		}
		rotated := imaging.Rotate(overlay, 45, color.NRGBA{})
		return imaging.CropCenter(rotated, w, h), nil
	}

	var x, y int
	switch opts.Position {
	case PositionCenter:
		x, y = (w-textW)/2, (h-textH)/2
	case PositionBottomRight:
		x, y = w-textW-watermarkPadding, h-textH-watermarkPadding
	case PositionBottomLeft:
		x, y = watermarkPadding, h-textH-watermarkPadding
	case PositionTopRight:
		x, y = w-textW-watermarkPadding, watermarkPadding
	case PositionTopLeft:
		x, y = watermarkPadding, watermarkPadding
	}
	stamp(x, y)
	return overlay, nil
}

// paintText draws a string with the glyph coverage interpolating between
// the existing pixel and the ink, so a fully covered pixel takes exactly
// the ink's color and alpha regardless of what was painted underneath.
func paintText(dst *image.NRGBA, face font.Face, s string, x, y int, ink color.NRGBA) {
	mask := image.NewAlpha(dst.Bounds())
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 0xff}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)

	b := dst.Bounds()
	for yy := b.Min.Y; yy < b.Max.Y; yy++ {
		for xx := b.Min.X; xx < b.Max.X; xx++ {
			cov := mask.AlphaAt(xx, yy).A
			if cov == 0 {
				continue
			}
			if cov == 0xff {
				dst.SetNRGBA(xx, yy, ink)
				continue
			}
			cur := dst.NRGBAAt(xx, yy)
			dst.SetNRGBA(xx, yy, color.NRGBA{
				R: lerp8(cur.R, ink.R, cov),
				G: lerp8(cur.G, ink.G, cov),
				B: lerp8(cur.B, ink.B, cov),
				A: lerp8(cur.A, ink.A, cov),
			})
		}
	}
}

func lerp8(a, b, t uint8) uint8 {
	return uint8((int(b)*int(t) + int(a)*(255-int(t))) / 255)
}

func meanLuminance(img *image.NRGBA) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			sum += 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
		}
	}
	return sum / float64(b.Dx()*b.Dy())
}

package canvas

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestWatermarkOverlayAlphaMatchesOpacity(t *testing.T) {
	base := imaging.New(1024, 1024, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	opacity := 0.3
	overlay, err := watermarkOverlay(base, WatermarkOptions{
		Text:     "SAMPLE",
		Position: PositionCenter,
		Opacity:  opacity,
		FontSize: 48,
		Color:    color.NRGBA{A: 255},
	})
	if err != nil {
		t.Fatalf("watermarkOverlay: %v", err)
	}

	var max uint8
	b := overlay.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := overlay.NRGBAAt(x, y).A; a > max {
				max = a
			}
		}
	}
	if max != uint8(255*opacity) {
		t.Fatalf("max overlay alpha = %d, want %d", max, uint8(255*opacity))
	}
}

func TestWatermarkOutputOpaqueAndSameSize(t *testing.T) {
	src := pngBytes(t, 640, 480, color.NRGBA{R: 30, G: 30, B: 30, A: 255})
	out, err := Watermark(src, WatermarkOptions{
		Text:     "demo",
		Position: PositionBottomRight,
		Opacity:  0.5,
		FontSize: 32,
		Color:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	})
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	got := decodePNG(t, out)
	if got.Bounds().Dx() != 640 || got.Bounds().Dy() != 480 {
		t.Fatalf("got %dx%d, want 640x480", got.Bounds().Dx(), got.Bounds().Dy())
	}
	for _, p := range []struct{ x, y int }{{0, 0}, {320, 240}, {639, 479}} {
		if a := got.NRGBAAt(p.x, p.y).A; a != 255 {
			t.Fatalf("pixel (%d,%d) alpha = %d, want opaque", p.x, p.y, a)
		}
	}
}

func TestWatermarkTiledCoversImage(t *testing.T) {
	src := pngBytes(t, 400, 300, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	out, err := Watermark(src, WatermarkOptions{
		Text:     "tile",
		Position: PositionTiled,
		Opacity:  0.4,
		FontSize: 24,
		Color:    color.NRGBA{A: 255},
	})
	if err != nil {
		t.Fatalf("Watermark tiled: %v", err)
	}
	got := decodePNG(t, out)
	if got.Bounds().Dx() != 400 || got.Bounds().Dy() != 300 {
		t.Fatalf("tiled output resized to %dx%d", got.Bounds().Dx(), got.Bounds().Dy())
	}
}

func TestParsePosition(t *testing.T) {
	if _, err := ParsePosition("bottom-right"); err != nil {
		t.Fatalf("valid position rejected: %v", err)
	}
	if _, err := ParsePosition("middle"); err == nil {
		t.Fatal("expected error for unknown position")
	}
}

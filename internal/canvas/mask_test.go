package canvas

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestMaskToAlphaThreshold(t *testing.T) {
	// Left half bright (edit region), right half dark (preserve).
	mask := imaging.New(8, 4, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			mask.SetNRGBA(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, mask, imaging.PNG); err != nil {
		t.Fatalf("encode mask: %v", err)
	}

	out, err := MaskToAlpha(buf.Bytes(), 8, 4)
	if err != nil {
		t.Fatalf("MaskToAlpha: %v", err)
	}
	got := decodePNG(t, out)

	if a := got.NRGBAAt(1, 1).A; a != 0 {
		t.Fatalf("bright mask pixel alpha = %d, want 0", a)
	}
	dark := got.NRGBAAt(6, 1)
	if dark.A != 255 {
		t.Fatalf("dark mask pixel alpha = %d, want 255", dark.A)
	}
	if dark.R != 0 || dark.G != 0 || dark.B != 0 {
		t.Fatalf("preserved pixel should be black, got %+v", dark)
	}
}

func TestMaskToAlphaResizesToTarget(t *testing.T) {
	src := pngBytes(t, 100, 50, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out, err := MaskToAlpha(src, 40, 20)
	if err != nil {
		t.Fatalf("MaskToAlpha: %v", err)
	}
	got := decodePNG(t, out)
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 20 {
		t.Fatalf("got %dx%d, want 40x20", got.Bounds().Dx(), got.Bounds().Dy())
	}
}

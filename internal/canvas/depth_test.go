package canvas

import (
	"image/color"
	"testing"
)

func TestDepthProxyDimensionsAndGradient(t *testing.T) {
	src := pngBytes(t, 64, 64, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out, err := DepthProxy(src)
	if err != nil {
		t.Fatalf("DepthProxy: %v", err)
	}
	got := decodePNG(t, out)
	if got.Bounds().Dx() != 64 || got.Bounds().Dy() != 64 {
		t.Fatalf("got %dx%d, want 64x64", got.Bounds().Dx(), got.Bounds().Dy())
	}
	// A flat input has no edges, so the vertical prior dominates: the
	// bottom rows read nearer than the top rows.
	top := int(got.NRGBAAt(32, 4).R)
	bottom := int(got.NRGBAAt(32, 59).R)
	if bottom <= top {
		t.Fatalf("bottom %d should exceed top %d", bottom, top)
	}
	// Output is single channel.
	c := got.NRGBAAt(20, 20)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("depth pixel is not grayscale: %+v", c)
	}
}

package canvas

import (
	"bytes"
	"image/color"
	"image/gif"
	"testing"
)

func TestFrameCount(t *testing.T) {
	tests := []struct {
		duration float64
		fps      int
		want     int
	}{
		{2.0, 15, 30},
		{1.0, 24, 24},
		{0.5, 10, 5},
		{0.01, 10, 1},
	}
	for _, tt := range tests {
		if got := FrameCount(tt.duration, tt.fps); got != tt.want {
			t.Errorf("FrameCount(%v, %d) = %d, want %d", tt.duration, tt.fps, got, tt.want)
		}
	}
}

func TestAnimateGIF(t *testing.T) {
	src := pngBytes(t, 800, 600, color.NRGBA{R: 120, G: 60, B: 200, A: 255})
	out, err := AnimateGIF(src, EffectZoom, 1.0, 10)
	if err != nil {
		t.Fatalf("AnimateGIF: %v", err)
	}

	g, err := gif.DecodeAll(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(g.Image) != 10 {
		t.Fatalf("got %d frames, want 10", len(g.Image))
	}
	if g.LoopCount != 0 {
		t.Fatalf("LoopCount = %d, want 0 (loop forever)", g.LoopCount)
	}
	for i, d := range g.Delay {
		if d != 10 {
			t.Fatalf("frame %d delay = %d, want 10", i, d)
		}
	}
	b := g.Image[0].Bounds()
	if b.Dx() > 512 || b.Dy() > 512 {
		t.Fatalf("frame %dx%d exceeds bound", b.Dx(), b.Dy())
	}
	if b.Dx()*600 != b.Dy()*800 {
		t.Fatalf("frame %dx%d lost the source aspect", b.Dx(), b.Dy())
	}
}

func TestParseEffect(t *testing.T) {
	for _, valid := range []string{"zoom", "pan", "rotate", "pulse", "fade"} {
		if _, err := ParseEffect(valid); err != nil {
			t.Errorf("ParseEffect(%q): %v", valid, err)
		}
	}
	if _, err := ParseEffect("wobble"); err == nil {
		t.Fatal("expected error for unknown effect")
	}
}

package canvas

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestNormalizeExactDimensions(t *testing.T) {
	tests := []struct {
		name           string
		srcW, srcH     int
		wantW, wantH   int
	}{
		{"wider than target", 2000, 800, 1024, 1024},
		{"taller than target", 800, 2000, 1024, 1536},
		{"already matching ratio", 512, 512, 1024, 1024},
		{"landscape target", 3000, 1000, 1536, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := pngBytes(t, tt.srcW, tt.srcH, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
			out, err := Normalize(src, tt.wantW, tt.wantH)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			got := decodePNG(t, out)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Fatalf("got %dx%d, want %dx%d", got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeSkipsCropWithinTolerance(t *testing.T) {
	// 1020x1024 is within the ratio tolerance of square, so the whole
	// frame is resized without cropping. A corner marker survives.
	src := imaging.New(1020, 1024, color.NRGBA{A: 255})
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	got := NormalizeImage(src, 512, 512)
	if got.Bounds().Dx() != 512 || got.Bounds().Dy() != 512 {
		t.Fatalf("got %dx%d, want 512x512", got.Bounds().Dx(), got.Bounds().Dy())
	}
}

func TestNormalizeRejectsBadTarget(t *testing.T) {
	src := pngBytes(t, 10, 10, color.NRGBA{A: 255})
	if _, err := Normalize(src, 0, 512); err == nil {
		t.Fatal("expected error for zero width")
	}
}

package canvas

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func pngBytes(t *testing.T, w, h int, fill color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(w, h, fill), imaging.PNG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, err := Decode(data)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return imaging.Clone(img)
}

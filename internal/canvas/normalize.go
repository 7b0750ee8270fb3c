package canvas

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Relative aspect tolerance below which cropping is skipped entirely.
const aspectTolerance = 0.01

// Normalize re-encodes raster bytes as PNG at exactly targetW x targetH.
// When the source aspect ratio differs from the target by more than the
// tolerance the source is center-cropped along its longer axis first, then
// resized with Lanczos resampling.
func Normalize(data []byte, targetW, targetH int) ([]byte, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("normalize: invalid target size %dx%d", targetW, targetH)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return EncodePNG(NormalizeImage(img, targetW, targetH))
}

// NormalizeImage is the decoded-image form of Normalize. The result always
// has dimensions exactly targetW x targetH.
func NormalizeImage(img image.Image, targetW, targetH int) *image.NRGBA {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	targetRatio := float64(targetW) / float64(targetH)
	srcRatio := float64(srcW) / float64(srcH)

	if math.Abs(srcRatio-targetRatio) > aspectTolerance {
		if srcRatio > targetRatio {
			// Wider than target: trim equal margins left and right.
			img = imaging.CropCenter(img, int(float64(srcH)*targetRatio), srcH)
		} else {
			// Taller than target: trim equal margins top and bottom.
			img = imaging.CropCenter(img, srcW, int(float64(srcW)/targetRatio))
		}
	}
	return imaging.Resize(img, targetW, targetH, imaging.Lanczos)
}

package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Depth proxy tuning. The values are empirical: they produce smooth,
// plausible-looking gradients, not physical depth.
const (
	depthWideBlurSigma   = 8.0
	depthNarrowBlurSigma = 3.0
	depthEdgeWeight      = 2
)

// Laplacian-style edge detection kernel.
var depthEdgeKernel = [9]float64{
	-1, -1, -1,
	-1, 8, -1,
	-1, -1, -1,
}

// DepthProxy synthesizes a pseudo depth map: luminance edges are detected,
// inverted (more local detail reads as nearer) and widely blurred, then
// additively blended with a top-to-bottom linear gradient prior, with the
// edge term scaled by a fixed weight and the sum clipped. A final narrower
// blur smooths the result. Output is a single-channel PNG at the source
// resolution.
func DepthProxy(data []byte) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	gray := imaging.Grayscale(img)
	edges := imaging.Convolve3x3(gray, depthEdgeKernel, nil)
	nearness := imaging.Blur(imaging.Invert(edges), depthWideBlurSigma)

	w := nearness.Bounds().Dx()
	h := nearness.Bounds().Dy()

	depth := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		grad := 0
		if h > 1 {
			grad = 255 * y / (h - 1)
		}
		for x := 0; x < w; x++ {
			v := grad + depthEdgeWeight*int(nearness.NRGBAAt(x, y).R)
			if v > 255 {
				v = 255
			}
			depth.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}

	smoothed := imaging.Blur(depth, depthNarrowBlurSigma)
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetGray(x, y, color.Gray{Y: smoothed.NRGBAAt(x, y).R})
		}
	}
	return EncodePNG(out)
}

package canvas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Direction selects a canvas edge to extend during outpainting.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirections validates and normalizes a direction list.
func ParseDirections(raw []string) ([]Direction, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one direction is required")
	}
	dirs := make([]Direction, 0, len(raw))
	for _, r := range raw {
		switch Direction(r) {
		case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
			dirs = append(dirs, Direction(r))
		default:
			return nil, fmt.Errorf("invalid direction %q", r)
		}
	}
	return dirs, nil
}

// Extensions holds the pixel extension per canvas edge.
type Extensions struct {
	Up    int `json:"up"`
	Down  int `json:"down"`
	Left  int `json:"left"`
	Right int `json:"right"`
}

// OutpaintSize computes the per-edge extension and the resulting canvas
// size. Each selected direction grows by amountPct percent of the relevant
// original dimension; horizontal directions scale with width, vertical with
// height.
func OutpaintSize(originalW, originalH int, dirs []Direction, amountPct float64) (Extensions, int, int) {
	var ext Extensions
	for _, d := range dirs {
		switch d {
		case DirectionUp:
			ext.Up = int(amountPct / 100 * float64(originalH))
		case DirectionDown:
			ext.Down = int(amountPct / 100 * float64(originalH))
		case DirectionLeft:
			ext.Left = int(amountPct / 100 * float64(originalW))
		case DirectionRight:
			ext.Right = int(amountPct / 100 * float64(originalW))
		}
	}
	return ext, originalW + ext.Left + ext.Right, originalH + ext.Up + ext.Down
}

// ExtendCanvas places the source image onto a larger canvas per the
// extensions and returns the extended image together with a mask whose
// bright pixels mark the newly added border regions. Both are PNG encoded at
// the extended size.
func ExtendCanvas(data []byte, ext Extensions) (extended, mask []byte, err error) {
	img, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	newW := w + ext.Left + ext.Right
	newH := h + ext.Up + ext.Down

	canvasImg := imaging.New(newW, newH, color.NRGBA{})
	canvasImg = imaging.Paste(canvasImg, img, image.Pt(ext.Left, ext.Up))

	maskImg := imaging.New(newW, newH, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	origRegion := imaging.New(w, h, color.NRGBA{A: 255})
	maskImg = imaging.Paste(maskImg, origRegion, image.Pt(ext.Left, ext.Up))

	extended, err = EncodePNG(canvasImg)
	if err != nil {
		return nil, nil, err
	}
	mask, err = EncodePNG(maskImg)
	if err != nil {
		return nil, nil, err
	}
	return extended, mask, nil
}

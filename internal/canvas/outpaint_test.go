package canvas

import "testing"

func TestOutpaintSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		dirs         []Direction
		amount       float64
		wantW, wantH int
	}{
		{"left and right", 1000, 800, []Direction{DirectionLeft, DirectionRight}, 50, 2000, 800},
		{"up only", 1000, 800, []Direction{DirectionUp}, 25, 1000, 1000},
		{"all sides", 400, 400, []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}, 100, 1200, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, newW, newH := OutpaintSize(tt.w, tt.h, tt.dirs, tt.amount)
			if newW != tt.wantW || newH != tt.wantH {
				t.Fatalf("got %dx%d (ext %+v), want %dx%d", newW, newH, ext, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestParseDirections(t *testing.T) {
	dirs, err := ParseDirections([]string{"left", "right"})
	if err != nil {
		t.Fatalf("ParseDirections: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("got %d directions, want 2", len(dirs))
	}
	if _, err := ParseDirections([]string{"sideways"}); err == nil {
		t.Fatal("expected error for unknown direction")
	}
	if _, err := ParseDirections(nil); err == nil {
		t.Fatal("expected error for empty directions")
	}
}

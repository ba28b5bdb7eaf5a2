package pixelart

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImage_AlphaDetection(t *testing.T) {
	tests := []struct {
		name      string
		alpha     uint8
		wantAlpha bool
	}{
		{"opaque", 255, false},
		{"translucent", 128, true},
		{"transparent", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createRGBAImage(t, 4, 4, func(x, y int) color.NRGBA {
				if x == 2 && y == 1 {
					return color.NRGBA{R: 10, G: 20, B: 30, A: tt.alpha}
				}
				return color.NRGBA{R: 10, G: 20, B: 30, A: 255}
			})
			if img.HasAlpha != tt.wantAlpha {
				t.Errorf("HasAlpha: got %v, want %v", img.HasAlpha, tt.wantAlpha)
			}
		})
	}
}

func TestFromImage_RebasesBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 10))
	src.Set(5, 5, color.RGBA{200, 100, 50, 255})

	img := FromImage(src)
	if img.Width() != 10 || img.Height() != 5 {
		t.Fatalf("dimensions: got %dx%d, want 10x5", img.Width(), img.Height())
	}
	if got := img.RGBAt(0, 0); got != (RGB{200, 100, 50}) {
		t.Errorf("RGBAt(0,0): got %v, want {200 100 50}", got)
	}
}

func TestFromImage_PreservesStraightAlpha(t *testing.T) {
	img := createRGBAImage(t, 1, 1, func(x, y int) color.NRGBA {
		return color.NRGBA{R: 200, G: 100, B: 50, A: 128}
	})
	if got := img.RGBAt(0, 0); got != (RGB{200, 100, 50}) {
		t.Errorf("RGBAt: got %v, want {200 100 50}", got)
	}
	if got := img.AlphaAt(0, 0); got != 128 {
		t.Errorf("AlphaAt: got %d, want 128", got)
	}
}

func TestSetPixel_OpaqueImageIgnoresAlpha(t *testing.T) {
	img := NewImage(2, 2, false)
	img.SetPixel(1, 1, RGB{1, 2, 3}, 10)
	if got := img.AlphaAt(1, 1); got != 255 {
		t.Errorf("AlphaAt: got %d, want 255", got)
	}
}

func TestRGB_Hex(t *testing.T) {
	tests := []struct {
		c    RGB
		want string
	}{
		{RGB{255, 0, 0}, "#ff0000"},
		{RGB{0, 128, 255}, "#0080ff"},
		{RGB{0, 0, 0}, "#000000"},
		{RGB{17, 34, 51}, "#112233"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("%v.Hex(): got %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestHistogram_Order(t *testing.T) {
	red, green, blue := RGB{255, 0, 0}, RGB{0, 255, 0}, RGB{0, 0, 255}
	pixels := []RGB{green, red, blue, red, green, red}

	hist := Histogram(pixels)
	if len(hist) != 3 {
		t.Fatalf("len: got %d, want 3", len(hist))
	}
	if hist[0].Color != red || hist[0].Count != 3 {
		t.Errorf("hist[0]: got %+v, want red x3", hist[0])
	}
	// blue has the smaller packed value but fewer pixels
	if hist[1].Color != green || hist[2].Color != blue {
		t.Errorf("order: got %+v", hist)
	}
}

func TestHistogram_TieBreak(t *testing.T) {
	a, b := RGB{0, 0, 9}, RGB{0, 0, 3}
	hist := Histogram([]RGB{a, b})
	if hist[0].Color != b {
		t.Errorf("tie should favor smaller packed color: got %+v", hist)
	}
}

func TestImage_Scale(t *testing.T) {
	img := createBlockImage(2, 2, 1)
	scaled := img.Scale(3)

	if scaled.Width() != 6 || scaled.Height() != 6 {
		t.Fatalf("dimensions: got %dx%d, want 6x6", scaled.Width(), scaled.Height())
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if got, want := scaled.RGBAt(x, y), blockColor(x/3, y/3); got != want {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}

	if img.Scale(1) != img {
		t.Error("Scale(1) should return the image unchanged")
	}
}

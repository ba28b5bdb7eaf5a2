package pixelart

import (
	"errors"
	"image/color"
	"testing"
)

// createQuadrantImage builds a size x size image with four flat quadrants.
func createQuadrantImage(size int) *Image {
	quads := []RGB{{230, 20, 20}, {20, 200, 40}, {30, 30, 220}, {240, 240, 240}}
	img := NewImage(size, size, false)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			q := 0
			if x >= size/2 {
				q++
			}
			if y >= size/2 {
				q += 2
			}
			img.SetPixel(x, y, quads[q], 255)
		}
	}
	return img
}

// createNoisyImage builds a deterministic image with many distinct colors.
func createNoisyImage(width, height int) *Image {
	img := NewImage(width, height, false)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := (x*37 + y*91 + x*y*13) % 256
			img.SetPixel(x, y, RGB{uint8(v), uint8((v * 3) % 256), uint8((x * 17) % 256)}, 255)
		}
	}
	return img
}

func TestAnalyzePaletteSizes_DistortionNonIncreasing(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
		maxK int
	}{
		{"quadrants", createQuadrantImage(16), 8},
		{"noisy", createNoisyImage(24, 24), 32},
		{"blocks", createBlockImage(6, 6, 2), 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := AnalyzePaletteSizes(tt.img, tt.maxK)
			if err != nil {
				t.Fatalf("AnalyzePaletteSizes failed: %v", err)
			}
			if len(report.Distortions) != tt.maxK {
				t.Fatalf("distortions: got %d entries, want %d", len(report.Distortions), tt.maxK)
			}
			for k := 1; k < len(report.Distortions); k++ {
				if report.Distortions[k] > report.Distortions[k-1] {
					t.Errorf("distortion(%d)=%v > distortion(%d)=%v",
						k+1, report.Distortions[k], k, report.Distortions[k-1])
				}
			}
			if report.Best < 2 || report.Best > tt.maxK {
				t.Errorf("Best: got %d, want within [2,%d]", report.Best, tt.maxK)
			}
		})
	}
}

func TestAnalyzePaletteSizes_Quadrants(t *testing.T) {
	report, err := AnalyzePaletteSizes(createQuadrantImage(16), 8)
	if err != nil {
		t.Fatalf("AnalyzePaletteSizes failed: %v", err)
	}
	if report.Distortions[3] != 0 {
		t.Errorf("four colors should fit exactly at k=4, got distortion %v", report.Distortions[3])
	}
	if report.Distortions[0] == 0 {
		t.Error("one color cannot fit four quadrants")
	}
	// first flat rate sits at k=4 -> 5; elbow index 4 plus offset 2
	if report.Best != 6 {
		t.Errorf("Best: got %d, want 6", report.Best)
	}
}

func TestSelectPaletteSize_SmallMax(t *testing.T) {
	img := createQuadrantImage(8)
	for _, maxK := range []int{-1, 0, 1} {
		got, err := SelectPaletteSize(img, maxK)
		if err != nil {
			t.Fatalf("maxK=%d: %v", maxK, err)
		}
		if got != 2 {
			t.Errorf("maxK=%d: got %d, want 2", maxK, got)
		}
	}
}

func TestSelectPaletteSize_CappedAtMax(t *testing.T) {
	for _, maxK := range []int{2, 3, 5} {
		got, err := SelectPaletteSize(createNoisyImage(16, 16), maxK)
		if err != nil {
			t.Fatalf("maxK=%d: %v", maxK, err)
		}
		if got < 2 || got > maxK {
			t.Errorf("maxK=%d: got %d", maxK, got)
		}
	}
}

func TestSelectPaletteSize_IgnoresAlpha(t *testing.T) {
	opaque := createQuadrantImage(8)
	translucent := createRGBAImage(t, 8, 8, func(x, y int) color.NRGBA {
		c := opaque.RGBAt(x, y)
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(x * 30)}
	})

	want, err := SelectPaletteSize(opaque, 8)
	if err != nil {
		t.Fatalf("opaque: %v", err)
	}
	got, err := SelectPaletteSize(translucent, 8)
	if err != nil {
		t.Fatalf("translucent: %v", err)
	}
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestReducePalette_AtMostK(t *testing.T) {
	img := createNoisyImage(20, 20)
	for _, k := range []int{1, 2, 4, 9, 16} {
		out, err := ReducePalette(img, k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if n := distinctRGB(out); n > k {
			t.Errorf("k=%d: output has %d colors", k, n)
		}
		if out.Width() != img.Width() || out.Height() != img.Height() {
			t.Errorf("k=%d: dimensions changed", k)
		}
	}
}

func TestReducePalette_PreservesAlpha(t *testing.T) {
	img := createRGBAImage(t, 12, 12, func(x, y int) color.NRGBA {
		v := uint8((x*41 + y*23) % 256)
		return color.NRGBA{R: v, G: 255 - v, B: uint8(x * 20), A: uint8((x*y*7 + 3) % 256)}
	})

	out, err := ReducePalette(img, 3)
	if err != nil {
		t.Fatalf("ReducePalette failed: %v", err)
	}
	if !out.HasAlpha {
		t.Fatal("output lost its alpha channel")
	}
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			if got, want := out.AlphaAt(x, y), img.AlphaAt(x, y); got != want {
				t.Fatalf("alpha at (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
	if n := distinctRGB(out); n > 3 {
		t.Errorf("output has %d colors, want at most 3", n)
	}
}

func TestReducePalette_Errors(t *testing.T) {
	img := createQuadrantImage(8)
	for _, k := range []int{0, -2, 5} {
		_, err := ReducePalette(img, k)
		if !errors.Is(err, ErrClustering) {
			t.Errorf("k=%d: got %v, want ErrClustering", k, err)
		}
	}
}

func TestReducePalette_DoesNotMutateInput(t *testing.T) {
	img := createNoisyImage(10, 10)
	before := append([]uint8(nil), img.NRGBA.Pix...)

	if _, err := ReducePalette(img, 2); err != nil {
		t.Fatalf("ReducePalette failed: %v", err)
	}
	for i := range before {
		if img.NRGBA.Pix[i] != before[i] {
			t.Fatalf("input modified at byte %d", i)
		}
	}
}

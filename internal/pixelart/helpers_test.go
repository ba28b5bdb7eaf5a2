package pixelart

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates a solid opaque test image.
func createInMemoryImage(width, height int, c RGB) *Image {
	img := NewImage(width, height, false)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetPixel(x, y, c, 255)
		}
	}
	return img
}

// blockColor gives every block of a grid a distinct color.
func blockColor(bx, by int) RGB {
	return RGB{R: uint8(bx*29 + 11), G: uint8(by*31 + 7), B: uint8((bx*8 + by) * 3)}
}

// createBlockImage builds a cols x rows grid of flat blocks, each scale
// pixels square, colored by blockColor.
func createBlockImage(cols, rows, scale int) *Image {
	img := NewImage(cols*scale, rows*scale, false)
	for y := 0; y < rows*scale; y++ {
		for x := 0; x < cols*scale; x++ {
			img.SetPixel(x, y, blockColor(x/scale, y/scale), 255)
		}
	}
	return img
}

// createRGBAImage wraps a hand-built NRGBA and runs channel detection on it.
func createRGBAImage(t *testing.T, width, height int, px func(x, y int) color.NRGBA) *Image {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src.SetNRGBA(x, y, px(x, y))
		}
	}
	return FromImage(src)
}

func distinctRGB(img *Image) int {
	return len(img.Palette())
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/pixel-detector/internal/pixelart"
)

func decodePNGFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return img
}

func TestSave_OpaqueIsRGB(t *testing.T) {
	img := createBlockImage(3, 3, 2)
	path := filepath.Join(t.TempDir(), "out.png")

	if err := Save(img, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	decoded := decodePNGFile(t, path)
	if _, ok := decoded.(*image.RGBA); !ok {
		t.Errorf("opaque output decoded as %T, want *image.RGBA", decoded)
	}
	r, g, b, _ := decoded.At(5, 5).RGBA()
	want := img.RGBAt(5, 5)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("pixel (5,5): got (%d,%d,%d), want %v", r>>8, g>>8, b>>8, want)
	}
}

func TestSave_KeepsAlpha(t *testing.T) {
	img := pixelart.NewImage(4, 4, true)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(x, y, pixelart.RGB{R: 200, G: 100, B: 50}, uint8(x*60))
		}
	}
	path := filepath.Join(t.TempDir(), "alpha.png")

	if err := Save(img, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	decoded, ok := decodePNGFile(t, path).(*image.NRGBA)
	if !ok {
		t.Fatal("alpha output should decode as *image.NRGBA")
	}
	for x := 0; x < 4; x++ {
		if got := decoded.NRGBAAt(x, 2).A; got != uint8(x*60) {
			t.Errorf("alpha at x=%d: got %d, want %d", x, got, x*60)
		}
	}
	if got := decoded.NRGBAAt(3, 0); got != (color.NRGBA{200, 100, 50, 180}) {
		t.Errorf("pixel (3,0): got %v", got)
	}
}

func TestSave_Errors(t *testing.T) {
	img := createInMemoryImage(2, 2, color.NRGBA{1, 2, 3, 255})
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing directory", filepath.Join(dir, "missing", "out.png")},
		{"unsupported extension", filepath.Join(dir, "out.xyz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Save(img, tt.path)
			if !errors.Is(err, pixelart.ErrEncode) {
				t.Errorf("got %v, want ErrEncode", err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	img := createBlockImage(2, 3, 1)

	tests := []struct {
		name         string
		scale        int
		wantW, wantH int
	}{
		{"native", 1, 2, 3},
		{"zero scale", 0, 2, 3},
		{"upscaled", 8, 16, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Encode(img, tt.scale)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
			if result.MimeType != "image/png" {
				t.Errorf("MimeType: got %s", result.MimeType)
			}

			data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
			if err != nil {
				t.Fatalf("failed to decode base64: %v", err)
			}
			decoded, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("failed to decode png: %v", err)
			}

			// the bottom-right pixel comes from the bottom-right source cell
			r, _, _, _ := decoded.At(tt.wantW-1, tt.wantH-1).RGBA()
			if uint8(r>>8) != img.RGBAt(1, 2).R {
				t.Errorf("bottom-right pixel: got R=%d, want %d", r>>8, img.RGBAt(1, 2).R)
			}
		})
	}
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-detector/internal/pixelart"
)

// EncodeResult contains an encoded image ready to be returned to a client.
type EncodeResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Save writes img to path. The format follows the file extension; PNG output
// uses best compression. An opaque image (HasAlpha false) is written as a
// plain RGB PNG since every pixel has alpha 255.
func Save(img *pixelart.Image, path string) error {
	err := imaging.Save(img.NRGBA, path, imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return fmt.Errorf("%w: failed to save %s: %v", pixelart.ErrEncode, path, err)
	}
	return nil
}

// EncodePNGBase64 encodes img as PNG and returns it base64-encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode image: %v", pixelart.ErrEncode, err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Encode returns img as a base64 PNG, enlarged by scale with nearest-neighbor
// sampling. A scale below 2 returns the image at its own size.
func Encode(img *pixelart.Image, scale int) (*EncodeResult, error) {
	out := img
	if scale > 1 {
		out = img.Scale(scale)
	}

	encoded, err := EncodePNGBase64(out.NRGBA)
	if err != nil {
		return nil, err
	}

	return &EncodeResult{
		Width:       out.Width(),
		Height:      out.Height(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

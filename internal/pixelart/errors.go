package pixelart

import "errors"

var (
	// ErrDecode reports an input image that could not be opened or decoded.
	ErrDecode = errors.New("decode failed")

	// ErrEncode reports an output image that could not be written.
	ErrEncode = errors.New("encode failed")

	// ErrGridDetection reports an axis with fewer than two discontinuity peaks,
	// so no cell spacing can be measured.
	ErrGridDetection = errors.New("grid detection failed: insufficient color variation to find cell boundaries")

	// ErrClustering reports a color count that cannot be fitted to the pixels:
	// k below one, no pixels, or more clusters than distinct colors.
	ErrClustering = errors.New("clustering failed")

	// ErrInvalidSize reports a non-positive target width or height.
	ErrInvalidSize = errors.New("invalid target size")
)

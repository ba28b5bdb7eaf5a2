// Package imaging provides file-level image operations around the pixelart core.
//
// This package loads and caches source images, writes results, encodes them
// for transport, lists palettes and draws grid overlays. The pixel-art
// algorithms themselves live in the pixelart package; everything here works
// on *pixelart.Image values and uses a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Formats
//
// Loading accepts PNG, JPEG, GIF, BMP, TIFF and WebP. Saving picks the encoder
// from the output file extension. Images returned to MCP clients are always
// PNG, base64-encoded.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are shared and
// must be treated as read-only; every pixelart stage returns a new image.
//
// # Error Handling
//
// Load failures wrap pixelart.ErrDecode and write or encode failures wrap
// pixelart.ErrEncode, so callers can classify them with errors.Is.
//
// # Performance Considerations
//
// Large images may consume significant memory when cached. Use Evict() or
// Clear() to manage memory for long-running processes.
package imaging

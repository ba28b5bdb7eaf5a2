// Package pixelart recovers the native resolution and palette of upscaled pixel art.
//
// The pipeline has four stages, each consuming one Image and producing a new one:
//
//  1. DetectSpacing estimates the size of one art pixel (a cell) from the spacing
//     of color-discontinuity peaks along each axis.
//  2. Downsample collapses every cell of a target grid to one color by clustering
//     the cell's pixels and taking the most populated cluster. When the image has
//     a non-trivial alpha channel the cell's alpha is voted among the pixels that
//     matched the winning color.
//  3. SelectPaletteSize picks a color count from the elbow of the median-cut
//     distortion curve.
//  4. ReducePalette clusters the RGB channels down to k colors and reattaches the
//     untouched alpha plane.
//
// ResizeToGrid, AutoDetectAndResize, SelectPaletteSize and ReducePalette are the
// independently callable entry points; Process chains them the way the command
// line tool does.
//
// # Determinism
//
// Clustering is seeded from the color histogram rather than a random source, so
// identical input always yields identical output, including tie-breaks.
//
// # Concurrency
//
// Tiles in Downsample and color counts in the palette sweep are independent and
// are fanned out across CPUs. Source images are only read; each worker writes a
// disjoint part of the output.
//
// # Errors
//
// Failures are reported with the sentinel errors in errors.go wrapped in context;
// test for them with errors.Is. No stage returns a partial image.
package pixelart

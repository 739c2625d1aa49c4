// Package transform implements grid traversal and the pixel transformations
// built on it.
//
// # Traversal
//
// Two primitives drive every transformation:
//
//   - Walk visits grid positions row by row, optionally skipping a border
//     margin, and hands each position together with the whole grid to a
//     PositionFunc.
//   - Neighborhood visits the up to nine pixels around a center, skipping
//     positions outside the grid, and hands each pixel to a PixelFunc.
//
// Accumulators such as ColorSums and AvgColor plug into Neighborhood through
// method values (sums.Add, avg.Paint).
//
// # Transformations
//
//   - Blur (ModeBlur): 3x3 box blur that paints the whole neighbourhood.
//   - DetectEdges (ModeEdges): runs an EdgeDetector; the default is a stub.
//   - Mirror (ModeMirror): horizontal flip.
//   - Grayscale (ModeGrayscale): per-pixel channel mean.
//
// # Concurrency
//
// Everything runs synchronously on the caller's goroutine. Blur in particular
// must stay sequential: its neighbourhoods overlap and later centers read
// pixels written by earlier ones, so the output depends on visiting order.
package transform

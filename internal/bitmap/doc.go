// Package bitmap reads and writes uncompressed 24-bit bitmaps that use the
// 14-byte file header followed by the 124-byte V5 info header.
//
// # Layout
//
// A file is laid out as:
//
//	offset 0    FileHeader  (14 bytes, magic "BM")
//	offset 14   InfoHeader  (124 bytes)
//	offset 138  optional gap up to FileHeader.OffBits
//	OffBits     height rows of RowStride(width) bytes, blue-green-red per pixel
//	            optional trailer (for example an embedded ICC profile)
//
// Every row is padded with zero bytes to a multiple of 4. Padding exists only
// on disk; a Grid stores exactly width pixels per row.
//
// # Row Order
//
// Grid row 0 is the first row in the file. Bitmaps with a positive height store
// the picture bottom-up, so row 0 is the bottom of the picture. The image.Image
// methods on Image flip rows so y = 0 is the top. Negative heights (top-down
// storage) are rejected with ErrUnsupportedFormat.
//
// # Errors
//
// All failures are returned as errors wrapping one of ErrIO, ErrMalformedHeader,
// ErrUnsupportedFormat, ErrTruncatedData, ErrOutOfBounds or ErrOutOfMemory.
// A failed Load never returns a partially decoded Image.
//
// # Round Trips
//
// Headers are written exactly as read, and bytes outside the pixel array are
// kept in Image.Gap and Image.Trailer, so Save(Load(path)) reproduces the input
// file byte for byte when nothing is changed and its row padding is zero.
package bitmap

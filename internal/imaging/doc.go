// Package imaging provides the read-only operations the MCP server offers on
// 24-bit bitmaps: a decoded-bitmap cache, metadata reports, colour sampling,
// PNG previews, pixel comparison and importing other image formats.
//
// # Coordinate Systems
//
// Two coordinate systems appear in results:
//   - Grid coordinates (row, col) address bitmap.Grid storage. Row 0 is the
//     first row in the file, which is the bottom row of the picture.
//   - Picture coordinates (x, y) follow the image.Image convention with (0,0)
//     at the top-left corner and Y increasing downward.
//
// For a bitmap of height h, grid row r corresponds to picture y = h-1-r.
//
// # Thread Safety
//
// Cache is safe for concurrent use. Bitmaps returned by Cache.Load are shared
// between callers and must not be modified; load a private copy with
// bitmap.Load before applying a transformation.
//
// # Color Representation
//
// Colors are returned in several formats:
//   - Hex: "#rrggbb"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - Gray: the value the grayscale transformation would store
//
// # Error Handling
//
// Errors from the bitmap package keep their sentinel kinds (ErrIO,
// ErrMalformedHeader, ErrOutOfBounds and so on) so callers can test them
// with errors.Is after any wrapping added here.
package imaging

package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF format decoder
	"image/jpeg"
	"image/png"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/bmp"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

// Import decodes the PNG, JPEG, GIF or BMP file at source and saves it to
// destination as a 24-bit bitmap with a V5 info header.
//
// Unrecognised formats and corrupt or unsupported image data fail with
// bitmap.ErrUnsupportedFormat, files that end early with
// bitmap.ErrTruncatedData, and other read failures with bitmap.ErrIO. Transparent pixels are composited over black.
// The returned bitmap is the one written to destination.
func Import(source, destination string) (*bitmap.Image, error) {
	src, err := imgio.Open(source)
	if err != nil {
		return nil, classifyDecodeError(source, err)
	}

	img, err := bitmap.FromImage(src)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", source, err)
	}

	if err := bitmap.Save(destination, img); err != nil {
		return nil, err
	}
	return img, nil
}

// classifyDecodeError maps a failure from opening or decoding source onto
// the bitmap error kinds.
func classifyDecodeError(source string, err error) error {
	var (
		pngFormat       png.FormatError
		pngUnsupported  png.UnsupportedError
		jpegFormat      jpeg.FormatError
		jpegUnsupported jpeg.UnsupportedError
	)
	switch {
	case errors.Is(err, image.ErrFormat):
		return fmt.Errorf("%w: %s is not a PNG, JPEG, GIF or BMP image", bitmap.ErrUnsupportedFormat, source)
	case errors.As(err, &pngFormat), errors.As(err, &pngUnsupported),
		errors.As(err, &jpegFormat), errors.As(err, &jpegUnsupported),
		errors.Is(err, bmp.ErrUnsupported):
		return fmt.Errorf("%w: cannot decode %s: %w", bitmap.ErrUnsupportedFormat, source, err)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %s ends early: %w", bitmap.ErrTruncatedData, source, err)
	default:
		return fmt.Errorf("%w: failed to read image %s: %w", bitmap.ErrIO, source, err)
	}
}

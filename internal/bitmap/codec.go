package bitmap

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Image is a decoded bitmap: its two headers, its pixels, and any bytes the
// file carries outside the pixel array.
//
// An Image is owned by one caller at a time. Transformations mutate Pixels in
// place; nothing in this package synchronizes access.
type Image struct {
	FileHeader FileHeader
	InfoHeader InfoHeader
	Pixels     *Grid

	// Gap holds the bytes between the end of the headers and FileHeader.OffBits.
	Gap []byte

	// Trailer holds the bytes after the pixel array, typically an embedded
	// ICC profile referenced by InfoHeader.ProfileData.
	Trailer []byte
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.Pixels.Width() }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.Pixels.Height() }

// New creates a black image of the given size with consistent headers:
// pixel data directly after the headers, sRGB colour space and 2835 pixels
// per metre (72 DPI).
func New(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrUnsupportedFormat, width, height)
	}
	g, err := Allocate(width, height)
	if err != nil {
		return nil, err
	}

	sizeImage := uint32(RowStride(width) * height)
	return &Image{
		FileHeader: FileHeader{
			Type:    Magic,
			Size:    HeadersSize + sizeImage,
			OffBits: HeadersSize,
		},
		InfoHeader: InfoHeader{
			Size:          InfoHeaderSize,
			Width:         int32(width),
			Height:        int32(height),
			Planes:        1,
			BitCount:      bitsPerPixel,
			Compression:   compressionRGB,
			SizeImage:     sizeImage,
			XPelsPerMeter: 2835,
			YPelsPerMeter: 2835,
			RedMask:       0x00FF0000,
			GreenMask:     0x0000FF00,
			BlueMask:      0x000000FF,
			CSType:        LCSsRGB,
			Intent:        LCSGMImages,
		},
		Pixels: g,
	}, nil
}

// Decode reads a complete bitmap from r.
//
// The headers are read and validated before anything else, and the
// dimensions are checked against MaxGridBytes, so a bad header or an
// oversized image is rejected after reading HeadersSize bytes.
//
// Read failures wrap ErrIO. Header problems are reported as ErrMalformedHeader
// or ErrUnsupportedFormat, short data as ErrTruncatedData. On error no Image
// is returned.
func Decode(r io.Reader) (*Image, error) {
	head := make([]byte, HeadersSize)
	if n, err := io.ReadFull(r, head); err != nil {
		if isShortRead(err) {
			return nil, fmt.Errorf("%w: need %d header bytes, have %d", ErrMalformedHeader, HeadersSize, n)
		}
		return nil, fmt.Errorf("%w: failed to read headers: %w", ErrIO, err)
	}

	fh, ih, err := DecodeHeaders(head)
	if err != nil {
		return nil, err
	}
	if err := fh.Validate(); err != nil {
		return nil, err
	}
	if err := ih.Validate(); err != nil {
		return nil, err
	}

	width, height := int(ih.Width), int(ih.Height)
	if err := checkSize(width, height); err != nil {
		return nil, err
	}

	// ReadAll grows with the data actually present, so a header claiming a
	// larger gap or more rows than the file holds does not allocate the
	// claimed size up front.
	gapLen := int64(fh.OffBits) - HeadersSize
	gap, err := io.ReadAll(io.LimitReader(r, gapLen))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read bitmap: %w", ErrIO, err)
	}
	if int64(len(gap)) < gapLen {
		return nil, fmt.Errorf("%w: pixel offset %d beyond end of %d-byte file", ErrTruncatedData, fh.OffBits, HeadersSize+len(gap))
	}

	need := int64(RowStride(width)) * int64(height)
	rows, err := io.ReadAll(io.LimitReader(r, need))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read pixel rows: %w", ErrIO, err)
	}
	pixels, err := DecodePixelRows(rows, width, height)
	if err != nil {
		return nil, err
	}

	trailer, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read bitmap: %w", ErrIO, err)
	}

	return &Image{
		FileHeader: fh,
		InfoHeader: ih,
		Pixels:     pixels,
		Gap:        gap,
		Trailer:    trailer,
	}, nil
}

func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// Encode writes img to w as headers, gap, padded pixel rows and trailer.
func Encode(w io.Writer, img *Image) error {
	data, err := encode(img)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: failed to write bitmap: %w", ErrIO, err)
	}
	return nil
}

func encode(img *Image) ([]byte, error) {
	if img == nil || img.Pixels == nil {
		return nil, fmt.Errorf("%w: image has no pixel grid", ErrMalformedHeader)
	}
	ih := img.InfoHeader
	if int(ih.Width) != img.Pixels.Width() || int(ih.Height) != img.Pixels.Height() {
		return nil, fmt.Errorf("%w: header declares %dx%d but grid is %dx%d",
			ErrMalformedHeader, ih.Width, ih.Height, img.Pixels.Width(), img.Pixels.Height())
	}
	if want := int64(img.FileHeader.OffBits) - HeadersSize; want != int64(len(img.Gap)) {
		return nil, fmt.Errorf("%w: pixel offset %d needs a %d-byte gap, have %d",
			ErrMalformedHeader, img.FileHeader.OffBits, want, len(img.Gap))
	}

	rows := EncodePixelRows(img.Pixels)
	buf := make([]byte, 0, HeadersSize+len(img.Gap)+len(rows)+len(img.Trailer))
	buf = append(buf, EncodeHeaders(img.FileHeader, ih)...)
	buf = append(buf, img.Gap...)
	buf = append(buf, rows...)
	buf = append(buf, img.Trailer...)
	return buf, nil
}

// Load reads and decodes the bitmap at path. The file is closed before
// Load returns, whether or not decoding succeeds.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bitmap: %w", ErrIO, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Save encodes img and writes it to path in a single write, creating or
// truncating the file.
//
// The write is not atomic: if it fails part way, the previous contents of
// path are lost and the file may hold a partial bitmap.
func Save(path string, img *Image) error {
	data, err := encode(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write bitmap: %w", ErrIO, err)
	}
	return nil
}

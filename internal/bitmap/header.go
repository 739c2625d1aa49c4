package bitmap

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Sizes of the on-disk header records. The two headers are stored back to
// back with no padding, so pixel data can start no earlier than HeadersSize.
const (
	FileHeaderSize = 14
	InfoHeaderSize = 124
	HeadersSize    = FileHeaderSize + InfoHeaderSize
)

// Values written by New and checked by Validate.
const (
	bitsPerPixel   = 24
	compressionRGB = 0

	// LCSsRGB is the "sRGB" colour space tag stored in InfoHeader.CSType.
	LCSsRGB = 0x73524742

	// LCSGMImages is the perceptual rendering intent stored in InfoHeader.Intent.
	LCSGMImages = 4
)

// Magic is the two-byte tag at the start of every bitmap file.
var Magic = [2]byte{'B', 'M'}

// FileHeader is the 14-byte record at the start of the file.
type FileHeader struct {
	Type      [2]byte // "BM"
	Size      uint32  // Total file size in bytes
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // Offset from the start of the file to the pixel array
}

// CIEXYZ is one colour space endpoint in fixed-point 2.30 notation.
type CIEXYZ struct {
	X int32
	Y int32
	Z int32
}

// InfoHeader is the 124-byte V5 info header.
//
// Only the geometry and format fields are interpreted. Masks, colour space,
// endpoints, gamma, intent and profile fields are carried through unchanged.
type InfoHeader struct {
	Size          uint32 // Size of this record, always 124
	Width         int32  // Width in pixels
	Height        int32  // Height in pixels; positive means rows are stored bottom-up
	Planes        uint16 // Must be 1
	BitCount      uint16 // Bits per pixel
	Compression   uint32 // 0 means uncompressed RGB
	SizeImage     uint32 // Size of the pixel array including row padding
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
	RedMask       uint32
	GreenMask     uint32
	BlueMask      uint32
	AlphaMask     uint32
	CSType        uint32
	Endpoints     [3]CIEXYZ // Red, green and blue endpoints
	GammaRed      uint32
	GammaGreen    uint32
	GammaBlue     uint32
	Intent        uint32
	ProfileData   uint32 // Offset of the ICC profile from the start of this header
	ProfileSize   uint32
	Reserved      uint32
}

// DecodeHeaders reads the file header from the first 14 bytes of b and the
// info header from the following 124 bytes.
//
// No field is interpreted; use Validate to check that the headers describe a
// bitmap this package can decode. DecodeHeaders fails with ErrMalformedHeader
// if b is shorter than HeadersSize.
func DecodeHeaders(b []byte) (FileHeader, InfoHeader, error) {
	var fh FileHeader
	var ih InfoHeader

	if len(b) < HeadersSize {
		return fh, ih, fmt.Errorf("%w: need %d header bytes, have %d", ErrMalformedHeader, HeadersSize, len(b))
	}

	r := bytes.NewReader(b[:HeadersSize])
	if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
		return FileHeader{}, InfoHeader{}, fmt.Errorf("%w: file header: %v", ErrMalformedHeader, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &ih); err != nil {
		return FileHeader{}, InfoHeader{}, fmt.Errorf("%w: info header: %v", ErrMalformedHeader, err)
	}
	return fh, ih, nil
}

// EncodeHeaders serializes both headers back to back in the on-disk layout.
// The result is always HeadersSize bytes long.
func EncodeHeaders(fh FileHeader, ih InfoHeader) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, HeadersSize))
	// Writes to a bytes.Buffer of fixed-size values cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, fh)
	_ = binary.Write(buf, binary.LittleEndian, ih)
	return buf.Bytes()
}

// Validate checks the magic tag and that the pixel array does not overlap the headers.
func (fh FileHeader) Validate() error {
	if fh.Type != Magic {
		return fmt.Errorf("%w: magic %q is not %q", ErrMalformedHeader, fh.Type[:], Magic[:])
	}
	if fh.OffBits < HeadersSize {
		return fmt.Errorf("%w: pixel offset %d lies inside the %d header bytes", ErrMalformedHeader, fh.OffBits, HeadersSize)
	}
	return nil
}

// Validate checks that the info header describes an uncompressed, bottom-up,
// 24-bit image with positive dimensions.
func (ih InfoHeader) Validate() error {
	if ih.Size != InfoHeaderSize {
		return fmt.Errorf("%w: info header size %d, only the %d-byte V5 header is supported", ErrMalformedHeader, ih.Size, InfoHeaderSize)
	}
	if ih.Width <= 0 {
		return fmt.Errorf("%w: width %d must be positive", ErrUnsupportedFormat, ih.Width)
	}
	if ih.Height < 0 {
		return fmt.Errorf("%w: negative height %d (top-down row order) is not supported", ErrUnsupportedFormat, ih.Height)
	}
	if ih.Height == 0 {
		return fmt.Errorf("%w: height must be positive", ErrUnsupportedFormat)
	}
	if ih.Planes != 1 {
		return fmt.Errorf("%w: %d planes, want 1", ErrUnsupportedFormat, ih.Planes)
	}
	if ih.BitCount != bitsPerPixel {
		return fmt.Errorf("%w: %d bits per pixel, only %d is supported", ErrUnsupportedFormat, ih.BitCount, bitsPerPixel)
	}
	if ih.Compression != compressionRGB {
		return fmt.Errorf("%w: compression %d, only uncompressed data is supported", ErrUnsupportedFormat, ih.Compression)
	}
	return nil
}

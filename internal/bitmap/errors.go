package bitmap

import "errors"

// Error kinds returned by this package. Callers match them with errors.Is;
// the returned errors wrap these with the position, path or size involved.
var (
	// ErrIO reports an open, read or write failure on the underlying file.
	ErrIO = errors.New("bitmap: i/o failure")

	// ErrMalformedHeader reports a header that is too short or structurally wrong
	// (bad magic, wrong info header size, pixel offset inside the headers).
	ErrMalformedHeader = errors.New("bitmap: malformed header")

	// ErrUnsupportedFormat reports a well-formed header describing something
	// this codec does not handle: compression, bit depths other than 24,
	// or top-down (negative height) row order.
	ErrUnsupportedFormat = errors.New("bitmap: unsupported format")

	// ErrTruncatedData reports fewer pixel bytes than the headers declare.
	ErrTruncatedData = errors.New("bitmap: truncated pixel data")

	// ErrOutOfBounds reports a grid access outside the image dimensions.
	ErrOutOfBounds = errors.New("bitmap: position out of bounds")

	// ErrOutOfMemory reports a pixel grid that cannot be allocated.
	ErrOutOfMemory = errors.New("bitmap: grid allocation failed")
)

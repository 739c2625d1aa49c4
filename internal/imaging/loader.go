package imaging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

// Cache provides thread-safe caching of decoded bitmaps to avoid redundant
// disk reads.
//
// Bitmaps are keyed by the exact path string passed to Load. Each Load stats
// the file, and a cached bitmap is only returned while the file's size and
// modification time are unchanged, so files rewritten by other programs are
// decoded again. Writers in this process still call Evict after replacing a
// file, since a rewrite within the file system's timestamp resolution can
// keep both values.
//
// # Memory Management
//
// Cached bitmaps remain in memory until explicitly removed via Evict() or
// Clear(), or replaced after their file changes. A bitmap can hold up to
// bitmap.MaxGridBytes of pixels.
//
// # Example Usage
//
//	cache := imaging.NewCache()
//	img, err := cache.Load("/path/to/picture.bmp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Read img...
//	cache.Evict("/path/to/picture.bmp")
type Cache struct {
	mu     sync.RWMutex
	images map[string]cacheEntry
}

type cacheEntry struct {
	img     *bitmap.Image
	modTime time.Time
	size    int64
}

// NewCache creates and initializes a new empty cache.
func NewCache() *Cache {
	return &Cache{
		images: make(map[string]cacheEntry),
	}
}

// Load retrieves a bitmap from the cache or decodes it from disk.
//
// The returned bitmap is shared with every other caller and must be treated
// as read-only.
//
// # Errors
//
// ErrIO when the file cannot be stat'ed or read (a cached copy of a file that
// has disappeared is dropped), and ErrMalformedHeader, ErrUnsupportedFormat,
// ErrTruncatedData or ErrOutOfMemory when its contents cannot be decoded.
// Failed loads are not cached.
func (c *Cache) Load(path string) (*bitmap.Image, error) {
	stat, err := os.Stat(path)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("%w: failed to stat file: %w", bitmap.ErrIO, err)
	}

	c.mu.RLock()
	e, ok := c.images[path]
	c.mu.RUnlock()
	if ok && e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
		return e.img, nil
	}

	img, err := bitmap.Load(path)
	if err != nil {
		c.Evict(path)
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = cacheEntry{img: img, modTime: stat.ModTime(), size: stat.Size()}
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached bitmaps.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all bitmaps from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific bitmap from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// BitmapInfo contains metadata about a decoded bitmap file.
type BitmapInfo struct {
	// Width is the number of pixels per row.
	Width int `json:"width"`

	// Height is the number of rows.
	Height int `json:"height"`

	// BitsPerPixel is always 24 for a bitmap that decoded successfully.
	BitsPerPixel int `json:"bits_per_pixel"`

	// RowStride is the serialized length of one row in bytes, including padding.
	RowStride int `json:"row_stride"`

	// RowPadding is the number of zero bytes appended to each row (0-3).
	RowPadding int `json:"row_padding"`

	// PixelOffset is the file offset of the first pixel row.
	PixelOffset int `json:"pixel_offset"`

	// PixelBytes is the size of the pixel array, RowStride * Height.
	PixelBytes int `json:"pixel_bytes"`

	// HeaderFileSize is the file size recorded in the file header.
	HeaderFileSize int64 `json:"header_file_size"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// ColorSpace is the four-character colour space tag ("sRGB", "Win ")
	// or "calibrated" when the tag is zero.
	ColorSpace string `json:"color_space"`

	// ResolutionX and ResolutionY are in pixels per metre.
	ResolutionX int `json:"resolution_x"`
	ResolutionY int `json:"resolution_y"`

	// GapBytes counts the bytes between the headers and the pixel array.
	GapBytes int `json:"gap_bytes"`

	// TrailerBytes counts the bytes after the pixel array, such as an
	// embedded colour profile.
	TrailerBytes int `json:"trailer_bytes"`
}

// Describe reports the metadata of a decoded bitmap. FileSizeBytes is the
// size the bitmap would have when saved.
func Describe(img *bitmap.Image) *BitmapInfo {
	stride := bitmap.RowStride(img.Width())
	pixelBytes := stride * img.Height()
	return &BitmapInfo{
		Width:          img.Width(),
		Height:         img.Height(),
		BitsPerPixel:   int(img.InfoHeader.BitCount),
		RowStride:      stride,
		RowPadding:     stride - img.Width()*bitmap.BytesPerPixel,
		PixelOffset:    int(img.FileHeader.OffBits),
		PixelBytes:     pixelBytes,
		HeaderFileSize: int64(img.FileHeader.Size),
		FileSizeBytes:  int64(int(img.FileHeader.OffBits) + pixelBytes + len(img.Trailer)),
		ColorSpace:     colorSpaceName(img.InfoHeader.CSType),
		ResolutionX:    int(img.InfoHeader.XPelsPerMeter),
		ResolutionY:    int(img.InfoHeader.YPelsPerMeter),
		GapBytes:       len(img.Gap),
		TrailerBytes:   len(img.Trailer),
	}
}

// LoadBitmapInfo loads a bitmap through the cache and returns its metadata,
// with FileSizeBytes taken from the file on disk.
func LoadBitmapInfo(cache *Cache, path string) (*BitmapInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat file: %w", bitmap.ErrIO, err)
	}

	info := Describe(img)
	info.FileSizeBytes = stat.Size()
	return info, nil
}

// colorSpaceName decodes a colour space tag. Tags are four ASCII characters
// stored most significant byte first.
func colorSpaceName(cs uint32) string {
	if cs == 0 {
		return "calibrated"
	}
	b := []byte{byte(cs >> 24), byte(cs >> 16), byte(cs >> 8), byte(cs)}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08X", cs)
		}
	}
	return string(b)
}

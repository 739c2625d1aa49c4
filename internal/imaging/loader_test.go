package imaging

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

// createTestBitmap writes a bitmap filled with p to a temp directory and
// returns its path.
func createTestBitmap(t *testing.T, width, height int, p bitmap.Pixel) string {
	t.Helper()
	img := newFilledBitmap(t, width, height, func(int, int) bitmap.Pixel { return p })
	return saveTestBitmap(t, img)
}

// newFilledBitmap builds a bitmap whose pixel at (row, col) is fill(row, col).
func newFilledBitmap(t *testing.T, width, height int, fill func(row, col int) bitmap.Pixel) *bitmap.Image {
	t.Helper()
	img, err := bitmap.New(width, height)
	if err != nil {
		t.Fatalf("bitmap.New(%d,%d) failed: %v", width, height, err)
	}
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			img.Pixels.Set(i, j, fill(i, j))
		}
	}
	return img
}

// newRandomBitmap builds a bitmap of pseudo-random pixels.
func newRandomBitmap(t *testing.T, width, height int, seed uint64) *bitmap.Image {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, 7))
	return newFilledBitmap(t, width, height, func(int, int) bitmap.Pixel {
		return bitmap.Pixel{Blue: uint8(r.IntN(256)), Green: uint8(r.IntN(256)), Red: uint8(r.IntN(256))}
	})
}

func saveTestBitmap(t *testing.T, img *bitmap.Image) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "test-bitmap-*.bmp")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	f.Close()
	if err := bitmap.Save(f.Name(), img); err != nil {
		t.Fatalf("failed to save bitmap: %v", err)
	}
	return f.Name()
}

func TestNewCache(t *testing.T) {
	cache := NewCache()
	if cache == nil {
		t.Fatal("NewCache returned nil")
	}
	if cache.images == nil {
		t.Fatal("NewCache did not initialize images map")
	}
	if cache.Len() != 0 {
		t.Errorf("new cache holds %d bitmaps", cache.Len())
	}
}

func TestCache_Load(t *testing.T) {
	cache := NewCache()
	path := createTestBitmap(t, 10, 6, bitmap.Pixel{Red: 255})

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1.Width() != 10 || img1.Height() != 6 {
		t.Errorf("unexpected dimensions: got %dx%d, want 10x6", img1.Width(), img1.Height())
	}

	// Second load of the unchanged file should return the cached bitmap.
	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached bitmap")
	}

	// Once the file is gone the cached copy is dropped.
	os.Remove(path)
	if _, err := cache.Load(path); !errors.Is(err, bitmap.ErrIO) {
		t.Errorf("Load of removed file: got %v, want ErrIO", err)
	}
	if cache.Len() != 0 {
		t.Error("removed file is still cached")
	}
}

func TestCache_Load_FileChanged(t *testing.T) {
	cache := NewCache()
	path := createTestBitmap(t, 4, 4, bitmap.Pixel{Red: 255})

	before, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Rewrite the file behind the cache's back, same size, new pixels.
	replacement := newFilledBitmap(t, 4, 4, func(int, int) bitmap.Pixel { return bitmap.Pixel{Blue: 255} })
	if err := bitmap.Save(path, replacement); err != nil {
		t.Fatalf("failed to rewrite bitmap: %v", err)
	}
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("failed to touch file: %v", err)
	}

	after, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after rewrite failed: %v", err)
	}
	if after == before {
		t.Fatal("Load returned the stale bitmap")
	}
	p, _ := after.Pixels.At(0, 0)
	if p != (bitmap.Pixel{Blue: 255}) {
		t.Errorf("pixel after rewrite: got %+v, want blue", p)
	}
}

func TestCache_Load_NonExistent(t *testing.T) {
	cache := NewCache()
	_, err := cache.Load("/nonexistent/path/to/picture.bmp")
	if !errors.Is(err, bitmap.ErrIO) {
		t.Errorf("got %v, want ErrIO", err)
	}
	if cache.Len() != 0 {
		t.Error("failed load was cached")
	}
}

func TestCache_Load_InvalidBitmap(t *testing.T) {
	cache := NewCache()
	path := filepath.Join(t.TempDir(), "invalid.bmp")
	if err := os.WriteFile(path, []byte("not a bitmap"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := cache.Load(path)
	if !errors.Is(err, bitmap.ErrMalformedHeader) {
		t.Errorf("got %v, want ErrMalformedHeader", err)
	}
}

func TestCache_ClearEvict(t *testing.T) {
	cache := NewCache()
	a := createTestBitmap(t, 3, 3, bitmap.Pixel{})
	b := createTestBitmap(t, 4, 4, bitmap.Pixel{})

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("cache holds %d bitmaps, want 2", cache.Len())
	}

	cache.Evict(a)
	if _, ok := cache.images[a]; ok {
		t.Error("Evict did not remove the bitmap")
	}
	if _, ok := cache.images[b]; !ok {
		t.Error("Evict removed the wrong bitmap")
	}

	cache.Evict("/not/cached.bmp")
	if cache.Len() != 1 {
		t.Errorf("evicting an unknown path changed the cache: %d entries", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear left %d bitmaps", cache.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache()
	path := createTestBitmap(t, 20, 20, bitmap.Pixel{Blue: 128})

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadBitmapInfo(t *testing.T) {
	cache := NewCache()
	path := createTestBitmap(t, 5, 4, bitmap.Pixel{})

	info, err := LoadBitmapInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadBitmapInfo failed: %v", err)
	}

	want := BitmapInfo{
		Width:          5,
		Height:         4,
		BitsPerPixel:   24,
		RowStride:      16,
		RowPadding:     1,
		PixelOffset:    bitmap.HeadersSize,
		PixelBytes:     64,
		HeaderFileSize: bitmap.HeadersSize + 64,
		FileSizeBytes:  bitmap.HeadersSize + 64,
		ColorSpace:     "sRGB",
		ResolutionX:    2835,
		ResolutionY:    2835,
	}
	if *info != want {
		t.Errorf("got %+v\nwant %+v", *info, want)
	}
}

func TestLoadBitmapInfo_NonExistent(t *testing.T) {
	_, err := LoadBitmapInfo(NewCache(), "/nonexistent/picture.bmp")
	if err == nil {
		t.Error("LoadBitmapInfo should fail for non-existent file")
	}
}

func TestDescribe_GapAndTrailer(t *testing.T) {
	img, _ := bitmap.New(2, 2)
	img.Gap = make([]byte, 6)
	img.FileHeader.OffBits += 6
	img.Trailer = []byte("profile")

	info := Describe(img)
	if info.GapBytes != 6 || info.TrailerBytes != 7 {
		t.Errorf("gap/trailer: got %d/%d, want 6/7", info.GapBytes, info.TrailerBytes)
	}
	if info.PixelOffset != bitmap.HeadersSize+6 {
		t.Errorf("pixel offset: got %d", info.PixelOffset)
	}
	if info.FileSizeBytes != int64(bitmap.HeadersSize+6+16+7) {
		t.Errorf("file size: got %d, want %d", info.FileSizeBytes, bitmap.HeadersSize+6+16+7)
	}
}

func TestColorSpaceName(t *testing.T) {
	tests := []struct {
		cs   uint32
		want string
	}{
		{bitmap.LCSsRGB, "sRGB"},
		{0x57696E20, "Win "},
		{0, "calibrated"},
		{0x00000001, "0x00000001"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := colorSpaceName(tt.cs); got != tt.want {
				t.Errorf("colorSpaceName(%#x): got %q, want %q", tt.cs, got, tt.want)
			}
		})
	}
}

package imaging

import (
	"math"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CompareResult summarises the pixel differences between two bitmaps.
type CompareResult struct {
	// SameSize reports whether both bitmaps have the same dimensions. When
	// they differ, only the overlapping grid positions are compared.
	SameSize bool `json:"same_size"`

	SizeA Size `json:"size_a"`
	SizeB Size `json:"size_b"`

	// PixelsCompared is the number of grid positions present in both bitmaps.
	PixelsCompared int `json:"pixels_compared"`

	// PixelsDifferent counts positions where any channel differs.
	PixelsDifferent int `json:"pixels_different"`

	// MaxChannelDiff is the largest absolute difference of a single channel.
	MaxChannelDiff int `json:"max_channel_diff"`

	// AverageChannelDiff is the mean absolute channel difference over all
	// compared positions and channels.
	AverageChannelDiff float64 `json:"average_channel_diff"`

	// SimilarityScore is 1 - AverageChannelDiff/255, from 0 to 1.
	SimilarityScore float64 `json:"similarity_score"`

	// Identical is true when the bitmaps have the same size and pixels.
	Identical bool `json:"identical"`
}

// Compare measures how far apart the pixels of a and b are. Grid positions
// are matched by (row, col) starting from row 0.
func Compare(a, b *bitmap.Image) *CompareResult {
	w := min(a.Width(), b.Width())
	h := min(a.Height(), b.Height())

	res := &CompareResult{
		SameSize:       a.Width() == b.Width() && a.Height() == b.Height(),
		SizeA:          Size{Width: a.Width(), Height: a.Height()},
		SizeB:          Size{Width: b.Width(), Height: b.Height()},
		PixelsCompared: w * h,
	}

	var total int
	for i := 0; i < h; i++ {
		rowA, _ := a.Pixels.Row(i)
		rowB, _ := b.Pixels.Row(i)
		for j := 0; j < w; j++ {
			pa, pb := rowA[j], rowB[j]
			if pa == pb {
				continue
			}
			res.PixelsDifferent++
			for _, d := range [3]int{
				absDiff(pa.Blue, pb.Blue),
				absDiff(pa.Green, pb.Green),
				absDiff(pa.Red, pb.Red),
			} {
				total += d
				res.MaxChannelDiff = max(res.MaxChannelDiff, d)
			}
		}
	}

	if res.PixelsCompared > 0 {
		avg := float64(total) / float64(res.PixelsCompared*bitmap.BytesPerPixel)
		res.AverageChannelDiff = math.Round(avg*1000) / 1000
		res.SimilarityScore = math.Round((1-avg/255)*10000) / 10000
	}
	res.Identical = res.SameSize && res.PixelsDifferent == 0
	return res
}

// absDiff returns the absolute difference of two channel values.
func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

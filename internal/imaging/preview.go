package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PreviewResult contains a PNG rendering of an image.
type PreviewResult struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	ImageBase64  string `json:"image_base64"`
	MimeType     string `json:"mime_type"`
}

// Preview renders img as a PNG that fits within maxSize x maxSize pixels,
// keeping the aspect ratio. Images already small enough are not enlarged.
func Preview(img image.Image, maxSize int) (*PreviewResult, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid preview size %d: must be positive", maxSize)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot preview an empty image")
	}

	scaled := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:        scaled.Bounds().Dx(),
		Height:       scaled.Bounds().Dy(),
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
		ImageBase64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:     "image/png",
	}, nil
}

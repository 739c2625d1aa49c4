package bitmap

import (
	"image"
	"image/color"
)

// Image implements image.Image so decoded bitmaps can be handed to the
// standard library and to other image packages for previews and comparison.
var _ image.Image = (*Image)(nil)

// ColorModel returns color.RGBAModel; every pixel is opaque.
func (img *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds returns the rectangle (0,0)-(width,height).
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Pixels.Width(), img.Pixels.Height())
}

// At returns the colour at (x, y) with y = 0 at the top of the picture.
//
// Rows are stored bottom-up, so y maps to grid row height-1-y. Points outside
// the bounds return transparent black, as image.Image requires.
func (img *Image) At(x, y int) color.Color {
	p, err := img.Pixels.At(img.Pixels.Height()-1-y, x)
	if err != nil {
		return color.RGBA{}
	}
	return color.RGBA{R: p.Red, G: p.Green, B: p.Blue, A: 0xFF}
}

// FromImage converts any decoded image into a 24-bit bitmap with headers
// built by New. Translucent pixels come out composited over black, since
// the bitmap has no alpha channel.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	img, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	height := b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row, err := img.Pixels.Row(height - 1 - (y - b.Min.Y))
		if err != nil {
			return nil, err
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(src.At(x, y)).(color.RGBA)
			row[x-b.Min.X] = Pixel{Blue: c.B, Green: c.G, Red: c.R}
		}
	}
	return img, nil
}

package imaging

import (
	"image"
	"image/color"
)

// Bitmap is a decoded frame reduced to 8-bit RGB triples stored row-major.
// Pixel (x, y) occupies Pix[3*(y*Width+x) : 3*(y*Width+x)+3].
// A Bitmap is not modified after construction.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBitmap allocates a zeroed (black) bitmap of the given size.
func NewBitmap(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
}

// Len returns the number of pixels in the bitmap.
func (b *Bitmap) Len() int {
	if b == nil {
		return 0
	}
	return b.Width * b.Height
}

// At returns the RGB triple at (x, y).
func (b *Bitmap) At(x, y int) (r, g, bl uint8) {
	i := 3 * (y*b.Width + x)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Set writes the RGB triple at (x, y). Only used while building a bitmap.
func (b *Bitmap) Set(x, y int, r, g, bl uint8) {
	i := 3 * (y*b.Width + x)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// FromImage converts any image.Image to a Bitmap. Alpha is dropped without
// un-premultiplying the colour against a background, matching a plain
// RGBA -> RGB conversion.
func FromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	bm := NewBitmap(bounds.Dx(), bounds.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < bm.Height; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < bm.Width; x++ {
				p := row[4*x : 4*x+3]
				bm.Set(x, y, p[0], p[1], p[2])
			}
		}
	default:
		for y := 0; y < bm.Height; y++ {
			for x := 0; x < bm.Width; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				bm.Set(x, y, c.R, c.G, c.B)
			}
		}
	}

	return bm
}

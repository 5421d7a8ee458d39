package imaging

import (
	"bytes"
	"fmt"
	"image"

	// Registered decoders. The format is sniffed from the payload, not
	// taken from the declared media type.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"flaresentinel/internal/types"
)

// DefaultMaxPixels caps width*height for a single frame.
const DefaultMaxPixels = 40_000_000

// Decoder turns data URLs into bitmaps.
type Decoder struct {
	maxPixels int
}

// NewDecoder creates a Decoder that rejects images larger than maxPixels.
// A non-positive maxPixels falls back to DefaultMaxPixels.
func NewDecoder(maxPixels int) *Decoder {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Decoder{maxPixels: maxPixels}
}

// Frame is a decoded image plus the format the decoder recognised.
type Frame struct {
	Format string
	Bitmap *Bitmap
}

// DecodeDataURL parses raw as a data URL and decodes its image payload.
func (d *Decoder) DecodeDataURL(raw string) (*Frame, error) {
	u, err := ParseDataURL(raw)
	if err != nil {
		return nil, err
	}
	return d.Decode(u.Data)
}

// Decode decodes encoded image bytes. The header is inspected first so that
// oversized or zero-area images are rejected before pixel data is allocated.
func (d *Decoder) Decode(data []byte) (*Frame, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidImage,
			"image data could not be decoded",
			err,
		)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidImage,
			"image has no pixels",
			nil,
			map[string]any{"width": cfg.Width, "height": cfg.Height},
		)
	}
	if cfg.Width > d.maxPixels/cfg.Height {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidImage,
			fmt.Sprintf("image exceeds the %d pixel limit", d.maxPixels),
			nil,
			map[string]any{"width": cfg.Width, "height": cfg.Height},
		)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidImage,
			"image data could not be decoded",
			err,
		)
	}

	return &Frame{Format: format, Bitmap: FromImage(img)}, nil
}

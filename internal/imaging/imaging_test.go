package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flaresentinel/internal/types"
)

// solidPNG encodes a w×h PNG filled with c.
func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func requireCode(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr), "expected *types.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestParseDataURL(t *testing.T) {
	payload := []byte("hello image")
	enc := base64.StdEncoding.EncodeToString(payload)

	t.Run("standard", func(t *testing.T) {
		u, err := ParseDataURL("data:image/png;base64," + enc)
		require.NoError(t, err)
		assert.Equal(t, "image/png", u.MediaType)
		assert.Equal(t, payload, u.Data)
	})

	t.Run("media type is case-insensitive and optional", func(t *testing.T) {
		u, err := ParseDataURL("data:IMAGE/JPEG;base64," + enc)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", u.MediaType)

		u, err = ParseDataURL("data:;base64," + enc)
		require.NoError(t, err)
		assert.Empty(t, u.MediaType)
	})

	t.Run("unpadded and wrapped payload", func(t *testing.T) {
		raw := base64.RawStdEncoding.EncodeToString(payload)
		u, err := ParseDataURL("data:image/png;base64," + raw[:5] + "\n" + raw[5:])
		require.NoError(t, err)
		assert.Equal(t, payload, u.Data)
	})

	tests := []struct {
		name  string
		input string
		code  types.ErrorCode
	}{
		{"empty", "", types.ErrCodeValidationInvalidDataURL},
		{"no scheme", "image/png;base64," + enc, types.ErrCodeValidationInvalidDataURL},
		{"no comma", "data:image/png;base64", types.ErrCodeValidationInvalidDataURL},
		{"not base64", "data:image/png," + enc, types.ErrCodeValidationInvalidDataURL},
		{"non-image media type", "data:text/plain;base64," + enc, types.ErrCodeValidationInvalidDataURL},
		{"corrupt base64", "data:image/png;base64,***not-base64***", types.ErrCodeValidationInvalidBase64},
		{"empty payload", "data:image/png;base64,", types.ErrCodeValidationInvalidBase64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataURL(tt.input)
			requireCode(t, err, tt.code)
		})
	}
}

func TestDecoder_DecodePNG(t *testing.T) {
	d := NewDecoder(0)
	frame, err := d.DecodeDataURL(dataURL("image/png", solidPNG(t, 2, 2, color.NRGBA{R: 255, A: 255})))
	require.NoError(t, err)

	assert.Equal(t, "png", frame.Format)
	assert.Equal(t, 2, frame.Bitmap.Width)
	assert.Equal(t, 2, frame.Bitmap.Height)
	assert.Equal(t, 4, frame.Bitmap.Len())
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, g, b := frame.Bitmap.At(x, y)
			assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
		}
	}
}

// TestDecoder_AlphaDropped verifies translucent pixels keep their straight colour.
func TestDecoder_AlphaDropped(t *testing.T) {
	d := NewDecoder(0)
	frame, err := d.Decode(solidPNG(t, 3, 1, color.NRGBA{R: 150, G: 150, B: 150, A: 10}))
	require.NoError(t, err)

	r, g, b := frame.Bitmap.At(2, 0)
	assert.Equal(t, [3]uint8{150, 150, 150}, [3]uint8{r, g, b})
}

func TestDecoder_OtherFormats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, img, &jpeg.Options{Quality: 90}))
	var gf bytes.Buffer
	require.NoError(t, gif.Encode(&gf, img, nil))

	d := NewDecoder(0)
	for format, data := range map[string][]byte{"jpeg": jpg.Bytes(), "gif": gf.Bytes()} {
		frame, err := d.Decode(data)
		require.NoError(t, err, format)
		assert.Equal(t, format, frame.Format)
		assert.Equal(t, 16, frame.Bitmap.Len())
	}
}

func TestDecoder_Rejections(t *testing.T) {
	t.Run("garbage bytes", func(t *testing.T) {
		_, err := NewDecoder(0).Decode([]byte("definitely not an image"))
		requireCode(t, err, types.ErrCodeValidationInvalidImage)
	})

	t.Run("truncated png", func(t *testing.T) {
		data := solidPNG(t, 8, 8, color.White)
		_, err := NewDecoder(0).Decode(data[:len(data)/2])
		requireCode(t, err, types.ErrCodeValidationInvalidImage)
	})

	t.Run("over pixel limit", func(t *testing.T) {
		_, err := NewDecoder(10).Decode(solidPNG(t, 4, 4, color.White))
		requireCode(t, err, types.ErrCodeValidationInvalidImage)
	})

	t.Run("data url errors pass through", func(t *testing.T) {
		_, err := NewDecoder(0).DecodeDataURL("data:image/png;base64,%%%")
		requireCode(t, err, types.ErrCodeValidationInvalidBase64)
	})
}

func TestFromImage_SubImageOffset(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	bm := FromImage(sub)
	require.Equal(t, 2, bm.Width)
	r, g, b := bm.At(0, 0)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestBitmap_NilAndEmpty(t *testing.T) {
	var nilBitmap *Bitmap
	assert.Equal(t, 0, nilBitmap.Len())
	assert.Equal(t, 0, NewBitmap(0, 5).Len())
	assert.Equal(t, 0, NewBitmap(-1, -1).Len())
}

package imaging

import (
	"encoding/base64"
	"strings"

	"flaresentinel/internal/types"
)

// DataURL is a parsed RFC 2397 data URL carrying a base64 payload.
type DataURL struct {
	// MediaType is the declared MIME type, e.g. "image/jpeg". May be empty.
	MediaType string
	// Data is the decoded payload.
	Data []byte
}

// ParseDataURL splits a "data:<mediatype>;base64,<payload>" string and
// decodes the payload. Standard and unpadded base64 are both accepted;
// whitespace inside the payload is ignored.
//
// Errors are *types.AppError with a validation_* code so they map to 400.
func ParseDataURL(raw string) (*DataURL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidDataURL,
			"image must be a data URL starting with \"data:\"",
			nil,
		)
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidDataURL,
			"image data URL is missing the comma-separated payload",
			nil,
		)
	}

	params := strings.Split(header, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidDataURL,
			"image data URL must use base64 encoding",
			nil,
		)
	}
	if mediaType != "" && !strings.HasPrefix(mediaType, "image/") {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidDataURL,
			"image data URL must declare an image media type",
			nil,
			map[string]any{"media_type": mediaType},
		)
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidBase64,
			"image payload is not valid base64",
			err,
		)
	}
	if len(data) == 0 {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidBase64,
			"image payload is empty",
			nil,
		)
	}

	return &DataURL{MediaType: mediaType, Data: data}, nil
}

// decodeBase64 strips whitespace and decodes with or without padding.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)

	if strings.HasSuffix(s, "=") || len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

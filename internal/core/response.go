package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"flaresentinel/internal/types"
)

// DefaultMaxBodyBytes caps request bodies decoded by DecodeJSON.
const DefaultMaxBodyBytes int64 = 10 << 20

// APIErrorResponse is the envelope for every error response.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the structured error returned to clients.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id"`
}

// JSON marshals data and writes it with the given status. A marshalling
// failure is reported as a 500 error payload instead.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(APIErrorResponse{
			Error: ErrorDetail{
				Code:      string(types.ErrCodeInternalUnexpected),
				Message:   "failed to marshal response",
				RequestID: types.GetRequestID(r.Context()),
			},
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes err as an error payload. A *types.AppError anywhere in the
// chain supplies the code, message, details and HTTP status. Any other error
// becomes a 500 with a generic message; wrapped causes are never exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	requestID := types.GetRequestID(r.Context())

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		JSON(w, r, appErr.HTTPStatus(), APIErrorResponse{
			Error: ErrorDetail{
				Code:      string(appErr.Code),
				Message:   appErr.Message,
				Details:   appErr.Details,
				RequestID: requestID,
			},
		})
		return
	}

	JSON(w, r, http.StatusInternalServerError, APIErrorResponse{
		Error: ErrorDetail{
			Code:      string(types.ErrCodeInternalUnexpected),
			Message:   "an unexpected error occurred",
			RequestID: requestID,
		},
	})
}

// DecodeJSON decodes the request body into dst with DefaultMaxBodyBytes as
// the size cap.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return DecodeJSONLimit(w, r, dst, DefaultMaxBodyBytes)
}

// DecodeJSONLimit decodes exactly one JSON value from the request body into
// dst. Unknown fields are ignored, since browser clients may send extras.
// Every failure is a *types.AppError with code validation_invalid_json:
// oversized body, syntax error, type mismatch, empty body, or trailing data.
// A limit <= 0 selects DefaultMaxBodyBytes.
func DecodeJSONLimit(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return mapDecodeError(err, limit)
	}

	if dec.More() {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"request body must contain a single JSON object",
			nil,
		)
	}
	return nil
}

// mapDecodeError translates a json.Decoder error into a structured AppError.
func mapDecodeError(err error, limit int64) *types.AppError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidJSON,
			fmt.Sprintf("request body must not exceed %d bytes", limit),
			err,
			map[string]any{"limit_bytes": limit},
		)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"malformed JSON in request body",
			err,
		)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidJSON,
			"invalid value for field",
			err,
			map[string]any{
				"field":    typeErr.Field,
				"expected": typeErr.Type.String(),
			},
		)
	}

	if errors.Is(err, io.EOF) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"request body must not be empty",
			err,
		)
	}

	return types.NewAppError(
		types.ErrCodeValidationInvalidJSON,
		"invalid JSON in request body",
		err,
	)
}

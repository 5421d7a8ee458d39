package core

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"flaresentinel/internal/types"
)

// responseCapture records the status code written by downstream handlers.
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.written {
		rc.statusCode = code
		rc.written = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.written {
		rc.statusCode = http.StatusOK
		rc.written = true
	}
	return rc.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach Flush on the wrapped writer.
func (rc *responseCapture) Unwrap() http.ResponseWriter {
	return rc.ResponseWriter
}

// Recoverer turns a panic anywhere below it into a logged stack trace and a
// 500 internal_unexpected_error payload.
func (s *Server) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			s.Logger.Error("panic recovered",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("panic", fmt.Sprintf("%v", rvr)),
				slog.String("stack", string(debug.Stack())),
			)

			// The request ID is assigned further down the chain; the
			// response header is the only place it is visible from here.
			requestID := types.GetRequestID(r.Context())
			if requestID == "" {
				requestID = w.Header().Get("X-Request-Id")
			}
			JSON(w, r, http.StatusInternalServerError, APIErrorResponse{
				Error: ErrorDetail{
					Code:      string(types.ErrCodeInternalUnexpected),
					Message:   "an unexpected error occurred",
					RequestID: requestID,
				},
			})
		}()

		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs method, path, status and duration for every request.
// Values of headers named in redactedHeaders (case-insensitive) are masked.
// 5xx logs at error, 4xx at warn, everything else at info.
func RequestLogger(logger *slog.Logger, redactedHeaders []string) func(http.Handler) http.Handler {
	redactSet := make(map[string]struct{}, len(redactedHeaders))
	for _, h := range redactedHeaders {
		redactSet[strings.ToLower(h)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rc := newResponseCapture(w)

			next.ServeHTTP(rc, r)

			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rc.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if reqID := types.GetRequestID(r.Context()); reqID != "" {
				args = append(args, slog.String("request_id", reqID))
			}

			headers := make([]any, 0, len(r.Header))
			for name, values := range r.Header {
				value := strings.Join(values, ", ")
				if _, ok := redactSet[strings.ToLower(name)]; ok {
					value = "[REDACTED]"
				}
				headers = append(headers, slog.String(name, value))
			}
			if len(headers) > 0 {
				args = append(args, slog.Group("headers", headers...))
			}

			switch {
			case rc.statusCode >= 500:
				logger.Error("request completed", args...)
			case rc.statusCode >= 400:
				logger.Warn("request completed", args...)
			default:
				logger.Info("request completed", args...)
			}
		})
	}
}

// MetricsMiddleware reports each request to s.Metrics. The endpoint dimension
// is the matched chi route pattern, so static file paths collapse to "/*".
// A nil collector turns the middleware into a pass-through.
func (s *Server) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rc := newResponseCapture(w)

		next.ServeHTTP(rc, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		s.Metrics.RecordRequest(r.Method, endpoint, strconv.Itoa(rc.statusCode), time.Since(start))
	})
}

// SecurityHeadersMiddleware sets nosniff, frame and XSS headers on every
// response, including errors.
func (s *Server) SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// NewCORSMiddleware allows the listed origins ("*" allows any) and answers
// OPTIONS preflights with 204.
func NewCORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
			break
		}
		originSet[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			var allowed string
			switch {
			case allowAll:
				allowed = "*"
			case origin != "":
				if _, ok := originSet[origin]; ok {
					allowed = origin
				}
			}

			if allowed != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowed)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
				h.Set("Access-Control-Expose-Headers", "X-Request-Id")
				h.Set("Access-Control-Max-Age", "86400")
				if allowed != "*" {
					h.Set("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

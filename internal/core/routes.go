package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"flaresentinel/internal/types"
)

const defaultRequestTimeout = 30 * time.Second

// Header values in this list are masked in request logs.
var defaultRedactedHeaders = []string{
	"Authorization",
	"Cookie",
}

// MountRoutes installs the global middleware chain, the health endpoint, the
// domain routes and finally the static frontend as the catch-all.
func (s *Server) MountRoutes() {
	s.registerGlobalMiddleware()

	s.router.Get("/health", s.HandleHealth)

	for _, registrar := range s.RouteRegistrars {
		registrar(s.router)
	}

	static := s.StaticHandler()
	s.router.Get("/*", static.ServeHTTP)
	s.router.Head("/*", static.ServeHTTP)
}

// registerGlobalMiddleware applies middleware in strict order:
//  1. Recoverer       - outermost, so every panic becomes a 500 payload.
//  2. ContextTimeout  - soft deadline on the request context.
//  3. RequestID       - correlation ID for logs and error payloads.
//  4. SecurityHeaders
//  5. RequestLogger   - redacted headers, level by status class.
//  6. CORS
//  7. Metrics
func (s *Server) registerGlobalMiddleware() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(s.requestTimeout()))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(s.SecurityHeadersMiddleware)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))
	s.router.Use(NewCORSMiddleware(s.corsAllowedOrigins()))
	s.router.Use(s.MetricsMiddleware)
}

func (s *Server) requestTimeout() time.Duration {
	if s.Config != nil && s.Config.Server.RequestTimeout > 0 {
		return s.Config.Server.RequestTimeout
	}
	return defaultRequestTimeout
}

func (s *Server) corsAllowedOrigins() []string {
	if s.Config != nil && len(s.Config.Security.CorsAllowedOrigins) > 0 {
		return s.Config.Security.CorsAllowedOrigins
	}
	return []string{"*"}
}

// ContextTimeoutMiddleware sets a deadline on the request context. Handlers
// observe it through ctx.Done(); the middleware itself never writes a response.
func ContextTimeoutMiddleware(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware reuses an incoming X-Request-Id or generates one, stores
// it in the context and echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = generateRequestID()
		}

		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(types.WithRequestID(r.Context(), requestID)))
	})
}

// generateRequestID returns 16 random bytes as 32 hex characters.
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "fallback-" + hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}

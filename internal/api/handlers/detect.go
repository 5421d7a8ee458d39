package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flaresentinel/internal/core"
	"flaresentinel/internal/detection"
	"flaresentinel/internal/imaging"
	"flaresentinel/internal/notifications/email"
	"flaresentinel/internal/types"
)

// ImageDecoder turns a data URL into a decoded frame.
type ImageDecoder interface {
	DecodeDataURL(raw string) (*imaging.Frame, error)
}

// FrameClassifier computes the color-box analysis of a frame.
type FrameClassifier interface {
	Analyze(bm *imaging.Bitmap) detection.Analysis
}

// AlertSender raises the unsafe-condition alert.
type AlertSender interface {
	NotifyUnsafe(ctx context.Context, result types.ClassificationResult) (*email.Alert, error)
}

// DetectionMetrics records one classification outcome.
type DetectionMetrics interface {
	RecordDetection(ctx context.Context, status types.SafetyStatus, confidence float64)
}

// DetectRequest is the body of POST /detect.
type DetectRequest struct {
	Image string `json:"image" validate:"required,data_url"`
}

// DetectHandler runs decode, classify, notify and respond for one frame.
type DetectHandler struct {
	decoder      ImageDecoder
	classifier   FrameClassifier
	alerts       AlertSender
	metrics      DetectionMetrics
	validator    *core.Validator
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewDetectHandler creates a DetectHandler. alerts and metrics may be nil.
// A non-positive maxBodyBytes uses core.DefaultMaxBodyBytes.
func NewDetectHandler(
	dec ImageDecoder,
	cls FrameClassifier,
	alerts AlertSender,
	metrics DetectionMetrics,
	val *core.Validator,
	logger *slog.Logger,
	maxBodyBytes int64,
) *DetectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetectHandler{
		decoder:      dec,
		classifier:   cls,
		alerts:       alerts,
		metrics:      metrics,
		validator:    val,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// RegisterRoutes mounts POST /detect.
func (h *DetectHandler) RegisterRoutes(r chi.Router) {
	r.Post("/detect", h.HandleDetect)
}

// HandleDetect handles POST /detect.
//
// The response body is the bare {"status","confidence"} object the browser
// client polls for. Alert delivery failures are logged and never change the
// response.
func (h *DetectHandler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DetectRequest
	if err := core.DecodeJSONLimit(w, r, &req, h.maxBodyBytes); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	frame, err := h.decoder.DecodeDataURL(req.Image)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	analysis := h.classifier.Analyze(frame.Bitmap)
	result := analysis.Result()

	level := slog.LevelDebug
	if result.IsUnsafe() {
		level = slog.LevelInfo
	}
	h.logger.Log(ctx, level, "frame classified",
		"request_id", types.GetRequestID(ctx),
		"format", frame.Format,
		"width", frame.Bitmap.Width,
		"height", frame.Bitmap.Height,
		"status", string(result.Status),
		"confidence", result.Confidence,
		"fire_fraction", analysis.FireFraction,
		"smoke_fraction", analysis.SmokeFraction,
	)

	if result.IsUnsafe() && h.alerts != nil {
		alert, err := h.alerts.NotifyUnsafe(ctx, result)
		switch {
		case err != nil:
			h.logger.ErrorContext(ctx, "failed to send unsafe-condition alert",
				"request_id", types.GetRequestID(ctx),
				"error", err,
			)
		case alert != nil:
			h.logger.InfoContext(ctx, "unsafe-condition alert sent",
				"request_id", types.GetRequestID(ctx),
				"alert_id", alert.ID,
			)
		}
	}

	if h.metrics != nil {
		h.metrics.RecordDetection(ctx, result.Status, result.Confidence)
	}

	core.JSON(w, r, http.StatusOK, result)
}

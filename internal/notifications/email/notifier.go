package email

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flaresentinel/internal/config"
	"flaresentinel/internal/types"
)

// AlertMetrics records alert outcomes. A nil AlertMetrics disables recording.
type AlertMetrics interface {
	RecordAlert(ctx context.Context, provider string, err error)
}

// Alert describes one unsafe-condition notification that was handed to the
// provider.
type Alert struct {
	ID                string
	Recipient         string
	Subject           string
	Body              string
	Confidence        float64
	CreatedAt         time.Time
	ProviderMessageID string
}

// NotifierConfig holds the dependencies needed to create an AlertNotifier.
type NotifierConfig struct {
	Alert    config.AlertConfig
	Provider Provider
	Logger   Logger
	Metrics  AlertMetrics
}

// AlertNotifier sends the unsafe-condition alert to the configured recipient.
// It holds no mutable state and is safe for concurrent use.
type AlertNotifier struct {
	cfg      config.AlertConfig
	provider Provider
	renderer *Renderer
	logger   Logger
	metrics  AlertMetrics

	now   func() time.Time
	newID func() string
}

// NewAlertNotifier validates cfg and builds the notifier.
func NewAlertNotifier(cfg NotifierConfig) (*AlertNotifier, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("email: provider must not be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("email: logger must not be nil")
	}
	renderer, err := NewRenderer(cfg.Alert.Subject)
	if err != nil {
		return nil, err
	}

	return &AlertNotifier{
		cfg:      cfg.Alert,
		provider: cfg.Provider,
		renderer: renderer,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return "alert_" + uuid.NewString() },
	}, nil
}

// NotifyUnsafe raises an alert for an unsafe classification. It returns
// (nil, nil) when alerting is disabled or the result is safe.
func (n *AlertNotifier) NotifyUnsafe(ctx context.Context, result types.ClassificationResult) (*Alert, error) {
	if !result.IsUnsafe() {
		return nil, nil
	}
	if !n.cfg.Enabled {
		n.logger.Info("alerting disabled; skipping unsafe-condition alert")
		return nil, nil
	}

	alert := &Alert{
		ID:         n.newID(),
		Recipient:  n.cfg.RecipientAddress,
		Confidence: result.Confidence,
		CreatedAt:  n.now(),
	}

	rendered, err := n.renderer.Render(AlertData{
		AlertID:    alert.ID,
		RequestID:  types.GetRequestID(ctx),
		Confidence: result.Confidence,
		DetectedAt: alert.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	alert.Subject = rendered.Subject
	alert.Body = rendered.BodyText

	n.logger.Info("sending unsafe-condition alert",
		"alert_id", alert.ID,
		"dest", RedactEmail(alert.Recipient),
		"provider", n.provider.Name(),
	)

	msgID, err := n.provider.Send(ctx, SendInput{
		To:          alert.Recipient,
		From:        SenderIdentity{Address: n.cfg.FromAddress, Name: n.cfg.FromName},
		Subject:     rendered.Subject,
		BodyText:    rendered.BodyText,
		ReferenceID: alert.ID,
	})
	if n.metrics != nil {
		n.metrics.RecordAlert(ctx, n.provider.Name(), err)
	}
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamEmailProvider,
			"alert delivery failed",
			err,
		)
	}

	alert.ProviderMessageID = msgID
	return alert, nil
}

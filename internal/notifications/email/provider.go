package email

import (
	"context"
	"fmt"
	"strings"
)

// SenderIdentity is the From line of an outgoing message.
type SenderIdentity struct {
	Address string
	Name    string
}

// String formats the identity as `Name <address>`.
func (s SenderIdentity) String() string {
	if s.Name == "" {
		return s.Address
	}
	return fmt.Sprintf("%s <%s>", s.Name, s.Address)
}

// SendInput is a fully rendered message handed to a Provider.
type SendInput struct {
	To          string
	From        SenderIdentity
	Subject     string
	BodyText    string
	ReferenceID string
}

// Provider delivers rendered messages. Send returns a provider message ID.
type Provider interface {
	Name() string
	Send(ctx context.Context, input SendInput) (string, error)
}

// LogProvider simulates email delivery by writing the message to the log.
// Nothing leaves the process.
type LogProvider struct {
	logger Logger
}

// Logger is the subset of types.Logger used by this package.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogProvider creates a LogProvider writing to logger.
func NewLogProvider(logger Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

// Name identifies the provider in logs and metrics.
func (p *LogProvider) Name() string {
	return "log"
}

// Send logs the message and returns a synthetic message ID derived from the
// reference ID. It never fails.
func (p *LogProvider) Send(_ context.Context, input SendInput) (string, error) {
	p.logger.Warn("SIMULATING EMAIL ALERT",
		"to", input.To,
		"from", input.From.String(),
		"subject", input.Subject,
		"body", strings.TrimSpace(input.BodyText),
		"reference_id", input.ReferenceID,
	)
	return "simulated-" + input.ReferenceID, nil
}

var _ Provider = (*LogProvider)(nil)

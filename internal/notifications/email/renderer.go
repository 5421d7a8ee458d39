package email

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"
)

//go:embed templates/*.txt
var templateFS embed.FS

// RenderedEmail holds the pre-rendered email content ready for transmission.
type RenderedEmail struct {
	Subject  string
	BodyText string
}

// AlertData is the struct passed into the alert template.
type AlertData struct {
	AlertID    string
	RequestID  string
	Confidence float64
	DetectedAt time.Time
}

// Renderer renders alert emails from the embedded plaintext template.
type Renderer struct {
	subject string
	body    *template.Template
}

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
}

// NewRenderer parses the embedded alert template. subject is used verbatim
// as the email subject line.
func NewRenderer(subject string) (*Renderer, error) {
	content, err := templateFS.ReadFile("templates/alert.txt")
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to read alert.txt: %w", err)
	}
	tmpl, err := template.New("alert").Funcs(templateFuncs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to parse alert.txt: %w", err)
	}
	return &Renderer{subject: subject, body: tmpl}, nil
}

// Render executes the alert template for data.
func (r *Renderer) Render(data AlertData) (*RenderedEmail, error) {
	var buf bytes.Buffer
	if err := r.body.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("renderer: failed to render alert: %w", err)
	}
	return &RenderedEmail{
		Subject:  r.subject,
		BodyText: buf.String(),
	}, nil
}

package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

const welcomeTemplate = "welcome_email.html"

// TemplateRenderer renders the embedded email templates. Each template
// defines a subject, plainBody and htmlBody block.
type TemplateRenderer struct{}

func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

func (TemplateRenderer) Render(templateName string, data any) (*Envelope, error) {
	t, err := template.New("email").ParseFS(templateFS, "templates/"+templateName)
	if err != nil {
		return nil, fmt.Errorf("could not parse template: %w", err)
	}

	var out [3]string
	for i, block := range []string{"subject", "plainBody", "htmlBody"} {
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, block, data); err != nil {
			return nil, fmt.Errorf("could not render %s: %w", block, err)
		}
		out[i] = strings.TrimSpace(buf.String())
	}

	return &Envelope{Subject: out[0], Text: out[1], HTML: out[2]}, nil
}

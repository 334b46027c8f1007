package mailer

import (
	"errors"
	"strings"

	mailtpl "github.com/oksasatya/adcart-backend/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
// You can also use a template by specifying Template and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "order_confirmation"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrNoRecipient = errors.New("email job has no recipient")

// Content renders the job. A template, when set, replaces the inline
// subject and bodies.
func (j *EmailJob) Content() (subject, text, html string, err error) {
	if strings.TrimSpace(j.To) == "" {
		if v, ok := j.Data["RecipientEmail"].(string); ok && v != "" {
			j.To = v
		} else {
			return "", "", "", ErrNoRecipient
		}
	}
	if j.Template == "" {
		return strings.TrimSpace(j.Subject), j.Text, j.HTML, nil
	}
	subject, text, html, err = mailtpl.Render(j.Template, j.Data)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}

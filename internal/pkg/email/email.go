package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails
type EmailService interface {
	SendInvitationReady(ctx context.Context, msg notification.InvitationReadyMessage) error
}

// renderer holds the parsed templates shared by every provider.
type renderer struct {
	templates *template.Template
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &renderer{templates: tmpl}, nil
}

type invitationReadyEmailData struct {
	HostName      string
	Title         string
	EventDate     string
	InvitationURL template.URL
	QRCode        template.URL
	ExpiresAt     string
}

const invitationReadySubject = "Seu convite está pronto! 🎉"

func (r *renderer) invitationReady(msg notification.InvitationReadyMessage) (subject, body string, err error) {
	data := invitationReadyEmailData{
		HostName:      msg.HostName,
		Title:         msg.Title,
		EventDate:     formatDate(msg.EventDate),
		InvitationURL: template.URL(msg.InvitationURL),
		QRCode:        template.URL(msg.QRCodeDataURL),
		ExpiresAt:     formatDate(msg.ExpiresAt),
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "invitation_ready.html", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}

	return invitationReadySubject, buf.String(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

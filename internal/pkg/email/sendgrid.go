package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/evermoment/evermoment-backend-go/internal/domain/notification"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	client   *sendgrid.Client
	from     *mail.Email
	renderer *renderer
}

// NewSendGridEmailService creates an email service backed by the SendGrid API
func NewSendGridEmailService(apiKey, fromAddress, fromName string) (EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is empty")
	}
	if fromAddress == "" {
		return nil, fmt.Errorf("from address is empty")
	}

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &sendGridEmailService{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromAddress),
		renderer: r,
	}, nil
}

// SendInvitationReady sends the activation email with the link and QR code
func (s *sendGridEmailService) SendInvitationReady(ctx context.Context, msg notification.InvitationReadyMessage) error {
	if msg.To == "" {
		return fmt.Errorf("to address is empty")
	}

	subject, body, err := s.renderer.invitationReady(msg)
	if err != nil {
		return err
	}

	plain := fmt.Sprintf("Seu convite \"%s\" está pronto: %s", msg.Title, msg.InvitationURL)
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(msg.HostName, msg.To), plain, body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	slog.Info("Email sent successfully", "provider", "sendgrid", "to", msg.To, "status", response.StatusCode)
	return nil
}

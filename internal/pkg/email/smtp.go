package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"

	"github.com/evermoment/evermoment-backend-go/internal/config"
	"github.com/evermoment/evermoment-backend-go/internal/domain/notification"
)

type smtpEmailService struct {
	cfg       config.SMTPConfig
	renderer  *renderer
	tlsConfig *tls.Config
}

// NewSMTPEmailService creates an email service that delivers over SMTP
func NewSMTPEmailService(cfg config.SMTPConfig) (EmailService, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &smtpEmailService{
		cfg:       cfg,
		renderer:  r,
		tlsConfig: &tls.Config{ServerName: cfg.Host},
	}, nil
}

// SendInvitationReady sends the activation email with the link and QR code
func (s *smtpEmailService) SendInvitationReady(ctx context.Context, msg notification.InvitationReadyMessage) error {
	subject, body, err := s.renderer.invitationReady(msg)
	if err != nil {
		return err
	}

	return s.sendHTML(ctx, msg.To, subject, body)
}

func (s *smtpEmailService) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	if err := s.deliver(ctx, addr, from, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}

// dial opens a TLS connection on SMTPS ports and a plain one otherwise.
func (s *smtpEmailService) dial(ctx context.Context, addr string) (net.Conn, error) {
	if s.cfg.ImplicitTLS {
		d := tls.Dialer{Config: s.tlsConfig.Clone()}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// deliver mirrors smtp.SendMail but bounds the whole exchange by ctx.
func (s *smtpEmailService) deliver(ctx context.Context, addr, from, to string, message []byte) error {
	conn, err := s.dial(ctx, addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok && !s.cfg.ImplicitTLS {
		if err := c.StartTLS(s.tlsConfig.Clone()); err != nil {
			return err
		}
	}
	if s.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

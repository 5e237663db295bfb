package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/notification"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/google/uuid"
)

// HandlePaymentConfirmed implements payment.Service.
// Nothing is written unless the signature verifies. A session id that was
// already recorded short-circuits before any write or email.
func (s *paymentService) HandlePaymentConfirmed(ctx context.Context, body []byte, signature, callbackToken string) error {
	if !s.verifier.Verify(body, signature, callbackToken) {
		return payment.ErrInvalidSignature
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", payment.ErrMalformedEvent, err)
	}
	if event.ID == "" {
		return fmt.Errorf("%w: missing id", payment.ErrMalformedEvent)
	}
	if !event.IsCompleted() {
		return fmt.Errorf("%w: status %s", payment.ErrEventIgnored, event.Status)
	}

	invitationID := event.MetadataValue(payment.MetadataInvitationID)
	if invitationID == "" {
		return payment.ErrMissingReference
	}

	processed, err := s.paymentRepo.ExistsBySessionID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("failed to check payment session: %w", err)
	}
	if processed {
		return payment.ErrAlreadyProcessed
	}

	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}

	publicURL := invitation.PublicURL(s.cfg.PublicBaseURL, inv.ID)
	qrCodeURL, err := s.qrGenerator.DataURL(publicURL)
	if err != nil {
		return fmt.Errorf("failed to generate qr code: %w", err)
	}

	paymentID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate payment id: %w", err)
	}

	record := payment.Payment{
		ID:                paymentID.String(),
		InvitationID:      &inv.ID,
		ProviderSessionID: event.ID,
		Amount:            event.PaidTotal(),
		Currency:          s.currencyOf(event),
		Status:            payment.StatusSucceeded,
		CustomerEmail:     inv.Email,
		CreatedAt:         s.cfg.Now().UTC(),
	}
	if event.PaymentID != "" {
		record.ProviderPaymentID = &event.PaymentID
	}
	if event.PayerEmail != "" {
		record.CustomerEmail = event.PayerEmail
	}
	if name := event.MetadataValue(payment.MetadataCustomerName); name != "" {
		record.CustomerName = &name
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.invitationRepo.MarkPaid(ctx, inv.ID, qrCodeURL); err != nil {
			return fmt.Errorf("failed to activate invitation: %w", err)
		}
		if _, err := s.paymentRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Invitation activated",
		"invitation_id", inv.ID,
		"session_id", event.ID,
		"amount", record.Amount.String(),
		"currency", record.Currency,
	)

	// Delivery is asynchronous; activation stands even if queueing fails
	err = s.notifier.QueueInvitationReady(ctx, notification.InvitationReadyMessage{
		InvitationID:  inv.ID,
		To:            inv.Email,
		HostName:      inv.HostName1,
		Title:         inv.Title,
		EventDate:     inv.EventDate,
		InvitationURL: publicURL,
		QRCodeDataURL: qrCodeURL,
		ExpiresAt:     inv.ExpiresAt,
	})
	if err != nil {
		slog.Error("Failed to queue invitation ready email", "invitation_id", inv.ID, "error", err)
	}

	return nil
}

func (s *paymentService) currencyOf(event payment.WebhookEvent) string {
	if event.Currency != "" {
		return event.Currency
	}
	if s.cfg.Currency != "" {
		return s.cfg.Currency
	}
	return payment.DefaultCurrency
}

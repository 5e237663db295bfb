package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

var eventTypeLabels = map[invitation.EventType]string{
	invitation.EventTypeWedding:    "Casamento",
	invitation.EventTypeBirthday:   "Aniversário",
	invitation.EventTypeBabyShower: "Chá de bebê",
	invitation.EventTypeGraduation: "Formatura",
	invitation.EventTypeOther:      "Evento",
}

// InitiateCheckout implements payment.Service.
func (s *paymentService) InitiateCheckout(ctx context.Context, req payment.CheckoutRequest) (payment.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return payment.CheckoutResponse{}, err
	}

	var (
		meta  payment.Metadata
		email string
	)
	if req.HasInvitation() {
		inv, err := s.invitationRepo.GetByID(ctx, strings.TrimSpace(*req.InvitationID))
		if err != nil {
			return payment.CheckoutResponse{}, err
		}
		if inv.IsPaid() {
			return payment.CheckoutResponse{}, payment.ErrInvitationAlreadyPaid
		}
		if inv.IsExpired(s.cfg.Now()) {
			return payment.CheckoutResponse{}, invitation.ErrInvitationExpired
		}

		meta = payment.Metadata{
			InvitationID: inv.ID,
			EventType:    inv.EventType,
			PlanType:     inv.PlanType,
			CustomerName: inv.HostName1,
		}
		if inv.Phone != nil {
			meta.Phone = *inv.Phone
		}
		email = inv.Email
	} else {
		meta = payment.Metadata{
			EventType: req.EventType,
			PlanType:  req.PlanType,
		}
		if req.Phone != nil {
			meta.Phone = validator.NormalizePhone(*req.Phone)
		}
		email = strings.ToLower(strings.TrimSpace(req.Email))
	}

	sessionReq, err := s.buildCheckoutSession(meta, email)
	if err != nil {
		return payment.CheckoutResponse{}, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, sessionReq)
	if err != nil {
		slog.Error("Checkout session creation failed",
			"invitation_id", meta.InvitationID,
			"plan_type", meta.PlanType,
			"reference", sessionReq.Reference,
			"error", err,
		)
		return payment.CheckoutResponse{}, fmt.Errorf("%w: %v", payment.ErrGatewayFailure, err)
	}

	// The confirmation webhook for this session will be logged as
	// unmatched: no draft is referenced.
	if meta.InvitationID == "" {
		slog.Warn("Checkout created without an invitation, payment cannot activate one",
			"session_id", session.ID,
			"reference", sessionReq.Reference,
			"plan_type", meta.PlanType,
		)
	}

	return payment.CheckoutResponse{
		URL:       session.URL,
		SessionID: session.ID,
	}, nil
}

// buildCheckoutSession resolves the plan price and assembles a single-item
// session whose redirect URLs carry the session reference.
func (s *paymentService) buildCheckoutSession(meta payment.Metadata, email string) (payment.CheckoutSessionRequest, error) {
	price, ok := s.cfg.Prices[meta.PlanType]
	if !ok || !price.IsPositive() {
		return payment.CheckoutSessionRequest{}, fmt.Errorf("%w: %s", payment.ErrPriceNotConfigured, meta.PlanType)
	}

	ref, err := uuid.NewV7()
	if err != nil {
		return payment.CheckoutSessionRequest{}, fmt.Errorf("failed to generate checkout reference: %w", err)
	}
	reference := "evm-" + ref.String()

	label, ok := eventTypeLabels[meta.EventType]
	if !ok {
		label = eventTypeLabels[invitation.EventTypeOther]
	}
	name := fmt.Sprintf("Convite digital %s - Plano %s", label, meta.PlanType)

	return payment.CheckoutSessionRequest{
		Reference:     reference,
		Amount:        price,
		Currency:      s.cfg.Currency,
		Description:   name,
		CustomerEmail: email,
		Items: []payment.LineItem{
			{Name: name, Price: price, Quantity: 1},
		},
		SuccessURL: strings.ReplaceAll(s.cfg.SuccessURL, payment.SessionPlaceholder, reference),
		CancelURL:  strings.ReplaceAll(s.cfg.CancelURL, payment.SessionPlaceholder, reference),
		Duration:   s.cfg.SessionDuration,
		Metadata:   meta,
	}, nil
}

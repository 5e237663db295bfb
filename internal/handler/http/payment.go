package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/evermoment/evermoment-backend-go/internal/handler/http/response"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/xendit"
)

const maxWebhookBodySize = 1 << 20

type PaymentHandler interface {
	Checkout(w http.ResponseWriter, r *http.Request)
	XenditWebhook(w http.ResponseWriter, r *http.Request)
}

type paymentHandlerImpl struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) PaymentHandler {
	return &paymentHandlerImpl{
		paymentService: paymentService,
	}
}

type webhookAck struct {
	Received bool `json:"received"`
}

// Checkout implements PaymentHandler.
func (h *paymentHandlerImpl) Checkout(w http.ResponseWriter, r *http.Request) {
	var req payment.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.paymentService.InitiateCheckout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// XenditWebhook implements PaymentHandler. Once the signature checks out
// the gateway always gets 200, so it does not redeliver events whose
// failure it cannot fix.
func (h *paymentHandlerImpl) XenditWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
	if err != nil {
		response.BadRequest(w, "Failed to read request body", nil)
		return
	}

	err = h.paymentService.HandlePaymentConfirmed(
		r.Context(),
		body,
		r.Header.Get(xendit.SignatureHeader),
		r.Header.Get(xendit.CallbackTokenHeader),
	)
	switch {
	case err == nil:
	case errors.Is(err, payment.ErrInvalidSignature):
		slog.Warn("Rejected webhook with invalid signature", "remote_addr", r.RemoteAddr)
		response.HandleError(w, err)
		return
	case errors.Is(err, payment.ErrAlreadyProcessed), errors.Is(err, payment.ErrEventIgnored):
		slog.Info("Webhook acknowledged without changes", "reason", err.Error())
	case errors.Is(err, invitation.ErrInvitationNotFound), errors.Is(err, payment.ErrMissingReference):
		slog.Error("Webhook references no known invitation", "error", err)
	default:
		slog.Error("Webhook processing failed", "error", err)
	}

	response.JSON(w, http.StatusOK, webhookAck{Received: true})
}

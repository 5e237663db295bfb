package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SessionPlaceholder is substituted in redirect URLs with the session reference.
const SessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// CheckoutRequest starts a payment either for a stored draft (InvitationID)
// or for raw wizard fields.
type CheckoutRequest struct {
	InvitationID *string              `json:"invitationId,omitempty"`
	EventType    invitation.EventType `json:"eventType"`
	PlanType     invitation.PlanType  `json:"planType"`
	Email        string               `json:"email"`
	Phone        *string              `json:"phone,omitempty"`
}

// HasInvitation reports whether the request references a stored draft.
func (r *CheckoutRequest) HasInvitation() bool {
	return r.InvitationID != nil && !validator.IsEmpty(*r.InvitationID)
}

// Validate skips the field checks when a draft is referenced; the draft's
// own fields are used instead.
func (r *CheckoutRequest) Validate() error {
	if r.HasInvitation() {
		return nil
	}

	var errs validator.ValidationErrors

	if !r.EventType.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "eventType",
			Message: "eventType must be one of WEDDING, BIRTHDAY, BABY_SHOWER, GRADUATION, OTHER",
		})
	}

	if !r.PlanType.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "planType",
			Message: "planType must be one of BASIC, PREMIUM",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// Metadata travels with the checkout session and comes back on the webhook.
type Metadata struct {
	InvitationID string
	EventType    invitation.EventType
	PlanType     invitation.PlanType
	Phone        string
	CustomerName string
}

const (
	MetadataInvitationID = "invitation_id"
	MetadataEventType    = "event_type"
	MetadataPlanType     = "plan_type"
	MetadataPhone        = "phone"
	MetadataCustomerName = "customer_name"
)

// ToMap omits empty values.
func (m Metadata) ToMap() map[string]string {
	out := map[string]string{
		MetadataEventType: string(m.EventType),
		MetadataPlanType:  string(m.PlanType),
	}
	if m.InvitationID != "" {
		out[MetadataInvitationID] = m.InvitationID
	}
	if m.Phone != "" {
		out[MetadataPhone] = m.Phone
	}
	if m.CustomerName != "" {
		out[MetadataCustomerName] = m.CustomerName
	}
	return out
}

// LineItem is always a single plan at quantity 1 for now.
type LineItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// CheckoutSessionRequest is what the gateway adapter needs to open a hosted checkout.
type CheckoutSessionRequest struct {
	Reference     string
	Amount        decimal.Decimal
	Currency      string
	Description   string
	CustomerEmail string
	Items         []LineItem
	SuccessURL    string
	CancelURL     string
	Duration      time.Duration
	Metadata      Metadata
}

type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is the invoice callback body sent by the gateway.
type WebhookEvent struct {
	ID            string         `json:"id"`
	ExternalID    string         `json:"external_id"`
	Status        string         `json:"status"`
	Amount        float64        `json:"amount"`
	PaidAmount    float64        `json:"paid_amount"`
	Currency      string         `json:"currency"`
	PayerEmail    string         `json:"payer_email"`
	PaymentID     string         `json:"payment_id"`
	PaymentMethod string         `json:"payment_method"`
	PaidAt        string         `json:"paid_at"`
	Metadata      map[string]any `json:"metadata"`
}

const (
	EventStatusPaid    = "PAID"
	EventStatusSettled = "SETTLED"
)

// IsCompleted reports whether the event confirms a finished checkout.
func (e *WebhookEvent) IsCompleted() bool {
	return e.Status == EventStatusPaid || e.Status == EventStatusSettled
}

// MetadataValue returns the metadata entry as a trimmed string.
func (e *WebhookEvent) MetadataValue(key string) string {
	v, ok := e.Metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// PaidTotal prefers the settled amount over the invoiced one.
func (e *WebhookEvent) PaidTotal() decimal.Decimal {
	if e.PaidAmount > 0 {
		return decimal.NewFromFloat(e.PaidAmount)
	}
	return decimal.NewFromFloat(e.Amount)
}

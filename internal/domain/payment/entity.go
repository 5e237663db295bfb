package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
)

// DefaultCurrency applies when the gateway event carries none.
const DefaultCurrency = "IDR"

// Payment records one confirmed gateway session. InvitationID is nil once
// the invitation has been purged.
type Payment struct {
	ID                string
	InvitationID      *string
	ProviderSessionID string
	ProviderPaymentID *string
	Amount            decimal.Decimal
	Currency          string
	Status            Status
	CustomerEmail     string
	CustomerName      *string
	CreatedAt         time.Time
}

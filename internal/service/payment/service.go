package payment

import (
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/notification"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// QRCodeGenerator renders the public link into an image payload.
type QRCodeGenerator interface {
	DataURL(content string) (string, error)
}

// Config holds checkout and activation configuration
type Config struct {
	PublicBaseURL   string
	Prices          map[invitation.PlanType]decimal.Decimal
	Currency        string
	SuccessURL      string // may contain payment.SessionPlaceholder
	CancelURL       string // may contain payment.SessionPlaceholder
	SessionDuration time.Duration
	Now             func() time.Time // default: time.Now
}

type paymentService struct {
	tx             invitation.Transactor
	invitationRepo invitation.InvitationRepository
	paymentRepo    payment.Repository
	gateway        payment.Gateway
	verifier       payment.SignatureVerifier
	qrGenerator    QRCodeGenerator
	notifier       notification.Service
	cfg            Config
}

func NewPaymentService(
	tx invitation.Transactor,
	invitationRepo invitation.InvitationRepository,
	paymentRepo payment.Repository,
	gateway payment.Gateway,
	verifier payment.SignatureVerifier,
	qrGenerator QRCodeGenerator,
	notifier notification.Service,
	cfg Config,
) payment.Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &paymentService{
		tx:             tx,
		invitationRepo: invitationRepo,
		paymentRepo:    paymentRepo,
		gateway:        gateway,
		verifier:       verifier,
		qrGenerator:    qrGenerator,
		notifier:       notifier,
		cfg:            cfg,
	}
}

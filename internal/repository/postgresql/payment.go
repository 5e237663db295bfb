package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type paymentRepositoryImpl struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payment.Repository {
	return &paymentRepositoryImpl{db: db}
}

// Create implements payment.Repository.
func (r *paymentRepositoryImpl) Create(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payments (
			id, invitation_id, provider_session_id, provider_payment_id, amount, currency,
			status, customer_email, customer_name, created_at
		) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)
		RETURNING id, invitation_id, provider_session_id, provider_payment_id, amount::text, currency,
			status, customer_email, customer_name, created_at
	`

	created, err := scanPayment(q.QueryRow(ctx, query,
		p.ID, p.InvitationID, p.ProviderSessionID, p.ProviderPaymentID, p.Amount.String(), p.Currency,
		p.Status, p.CustomerEmail, p.CustomerName, p.CreatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return payment.Payment{}, payment.ErrAlreadyProcessed
		}
		return payment.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

// ExistsBySessionID implements payment.Repository.
func (r *paymentRepositoryImpl) ExistsBySessionID(ctx context.Context, providerSessionID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE provider_session_id = $1)`, providerSessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payment session: %w", err)
	}

	return exists, nil
}

// ListByInvitationID implements payment.Repository.
func (r *paymentRepositoryImpl) ListByInvitationID(ctx context.Context, invitationID string) ([]payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, invitation_id, provider_session_id, provider_payment_id, amount::text, currency,
			status, customer_email, customer_name, created_at
		FROM payments
		WHERE invitation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]payment.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func scanPayment(row pgx.Row) (payment.Payment, error) {
	var p payment.Payment
	var amount string
	if err := row.Scan(
		&p.ID, &p.InvitationID, &p.ProviderSessionID, &p.ProviderPaymentID, &amount, &p.Currency,
		&p.Status, &p.CustomerEmail, &p.CustomerName, &p.CreatedAt,
	); err != nil {
		return payment.Payment{}, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("invalid payment amount %q: %w", amount, err)
	}
	p.Amount = d

	return p, nil
}

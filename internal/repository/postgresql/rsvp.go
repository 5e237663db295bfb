package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type rsvpRepositoryImpl struct {
	db *database.DB
}

func NewRSVPRepository(db *database.DB) invitation.RSVPRepository {
	return &rsvpRepositoryImpl{db: db}
}

// Create implements invitation.RSVPRepository. The parent invitation row
// stays locked until the surrounding transaction ends, so RSVPs for the same
// invitation are counted one after another.
func (r *rsvpRepositoryImpl) Create(ctx context.Context, rsvp invitation.RSVP) (invitation.RSVP, error) {
	q := GetQuerier(ctx, r.db)

	var locked string
	err := q.QueryRow(ctx, `SELECT id FROM invitations WHERE id = $1 FOR UPDATE`, rsvp.InvitationID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.RSVP{}, invitation.ErrInvitationNotFound
		}
		return invitation.RSVP{}, fmt.Errorf("failed to lock invitation: %w", err)
	}

	query := `
		INSERT INTO rsvps (
			id, invitation_id, guest_name, guest_email, guest_phone, attending, guests_count, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, invitation_id, guest_name, guest_email, guest_phone, attending, guests_count, message, created_at
	`

	var created invitation.RSVP
	err = q.QueryRow(ctx, query,
		rsvp.ID, rsvp.InvitationID, rsvp.GuestName, rsvp.GuestEmail, rsvp.GuestPhone,
		rsvp.Attending, rsvp.GuestsCount, rsvp.Message, rsvp.CreatedAt,
	).Scan(
		&created.ID, &created.InvitationID, &created.GuestName, &created.GuestEmail, &created.GuestPhone,
		&created.Attending, &created.GuestsCount, &created.Message, &created.CreatedAt,
	)
	if err != nil {
		return invitation.RSVP{}, fmt.Errorf("failed to create rsvp: %w", err)
	}

	return created, nil
}

// ListByInvitationID implements invitation.RSVPRepository.
func (r *rsvpRepositoryImpl) ListByInvitationID(ctx context.Context, invitationID string) ([]invitation.RSVP, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, invitation_id, guest_name, guest_email, guest_phone, attending, guests_count, message, created_at
		FROM rsvps
		WHERE invitation_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	defer rows.Close()

	rsvps := make([]invitation.RSVP, 0)
	for rows.Next() {
		var rsvp invitation.RSVP
		if err := rows.Scan(
			&rsvp.ID, &rsvp.InvitationID, &rsvp.GuestName, &rsvp.GuestEmail, &rsvp.GuestPhone,
			&rsvp.Attending, &rsvp.GuestsCount, &rsvp.Message, &rsvp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rsvps: %w", err)
	}

	return rsvps, nil
}

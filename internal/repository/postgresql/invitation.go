package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type invitationRepositoryImpl struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

const invitationColumns = `
	id, event_type, plan_type, title, host_name_1, host_name_2, description,
	event_date, event_time, location, email, phone, custom_message, music_url,
	photos, status, qr_code_url, view_count, rsvp_count, expires_at, created_at, updated_at`

func scanInvitation(row pgx.Row) (invitation.Invitation, error) {
	var inv invitation.Invitation
	err := row.Scan(
		&inv.ID, &inv.EventType, &inv.PlanType, &inv.Title, &inv.HostName1, &inv.HostName2, &inv.Description,
		&inv.EventDate, &inv.EventTime, &inv.Location, &inv.Email, &inv.Phone, &inv.CustomMessage, &inv.MusicURL,
		&inv.Photos, &inv.Status, &inv.QRCodeURL, &inv.ViewCount, &inv.RSVPCount, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	return inv, err
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	photos := inv.Photos
	if photos == nil {
		photos = []string{}
	}

	query := `
		INSERT INTO invitations (
			id, event_type, plan_type, title, host_name_1, host_name_2, description,
			event_date, event_time, location, email, phone, custom_message, music_url,
			photos, status, expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		RETURNING ` + invitationColumns

	created, err := scanInvitation(q.QueryRow(ctx, query,
		inv.ID, inv.EventType, inv.PlanType, inv.Title, inv.HostName1, inv.HostName2, inv.Description,
		inv.EventDate, inv.EventTime, inv.Location, inv.Email, inv.Phone, inv.CustomMessage, inv.MusicURL,
		photos, inv.Status, inv.ExpiresAt, inv.CreatedAt,
	))
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	return created, nil
}

// GetByID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, id string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`

	inv, err := scanInvitation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to get invitation: %w", err)
	}

	return inv, nil
}

// MarkPaid implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkPaid(ctx context.Context, id string, qrCodeURL string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET status = $2, qr_code_url = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, id, invitation.StatusPaid, qrCodeURL)
	if err != nil {
		return fmt.Errorf("failed to mark invitation paid: %w", err)
	}
	if result.RowsAffected() == 0 {
		return invitation.ErrInvitationNotFound
	}

	return nil
}

// IncrementViewCount implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) IncrementViewCount(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE invitations SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`

	var count int
	if err := q.QueryRow(ctx, query, id).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, invitation.ErrInvitationNotFound
		}
		return 0, fmt.Errorf("failed to increment view count: %w", err)
	}

	return count, nil
}

// RefreshRSVPCount implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) RefreshRSVPCount(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET rsvp_count = (
			SELECT COALESCE(SUM(guests_count), 0)
			FROM rsvps
			WHERE invitation_id = $1 AND attending
		), updated_at = NOW()
		WHERE id = $1
		RETURNING rsvp_count
	`

	var count int
	if err := q.QueryRow(ctx, query, id).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, invitation.ErrInvitationNotFound
		}
		return 0, fmt.Errorf("failed to refresh rsvp count: %w", err)
	}

	return count, nil
}

// DeleteExpired implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) ([]invitation.PurgedInvitation, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `DELETE FROM invitations WHERE expires_at <= $1 RETURNING id, photos`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired invitations: %w", err)
	}
	defer rows.Close()

	purged := make([]invitation.PurgedInvitation, 0)
	for rows.Next() {
		var p invitation.PurgedInvitation
		if err := rows.Scan(&p.ID, &p.Photos); err != nil {
			return nil, fmt.Errorf("failed to scan purged invitation: %w", err)
		}
		purged = append(purged, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to delete expired invitations: %w", err)
	}

	return purged, nil
}

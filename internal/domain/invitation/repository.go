package invitation

import (
	"context"
	"time"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv Invitation) (Invitation, error)
	// GetByID returns ErrInvitationNotFound when no row matches.
	GetByID(ctx context.Context, id string) (Invitation, error)
	MarkPaid(ctx context.Context, id string, qrCodeURL string) error
	// IncrementViewCount adds exactly one view atomically and returns the new count.
	IncrementViewCount(ctx context.Context, id string) (int, error)
	// RefreshRSVPCount recomputes rsvp_count as the sum of guests over attending RSVPs.
	RefreshRSVPCount(ctx context.Context, id string) (int, error)
	// DeleteExpired removes invitations past expires_at together with their
	// RSVPs and returns what was removed.
	DeleteExpired(ctx context.Context, now time.Time) ([]PurgedInvitation, error)
}

// PurgedInvitation is what remains of an invitation after DeleteExpired.
type PurgedInvitation struct {
	ID     string
	Photos []string
}

type RSVPRepository interface {
	Create(ctx context.Context, rsvp RSVP) (RSVP, error)
	// ListByInvitationID orders by creation time, oldest first.
	ListByInvitationID(ctx context.Context, invitationID string) ([]RSVP, error)
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PhotoRemover deletes an uploaded photo given the URL stored on the
// invitation. URLs that were not uploaded here are ignored.
type PhotoRemover interface {
	DeletePhoto(ctx context.Context, photoURL string) error
}

package invitation

import "context"

// Service is the invitation lifecycle: draft, publication and RSVPs.
type Service interface {
	CreateDraft(ctx context.Context, req CreateRequest) (CreateResponse, error)
	GetPublicInvitation(ctx context.Context, id string) (InvitationResponse, error)
	RecordRSVP(ctx context.Context, invitationID string, req RSVPRequest) (RecordRSVPResponse, error)

	GetHostInvitation(ctx context.Context, id string) (HostInvitationResponse, error)
	ListGuests(ctx context.Context, id string) (GuestListResponse, error)

	// PurgeExpired deletes invitations past their retention window.
	PurgeExpired(ctx context.Context) (int64, error)
}

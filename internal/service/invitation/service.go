package invitation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/jwt"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Config holds invitation service configuration
type Config struct {
	PublicBaseURL string
	Now           func() time.Time // default: time.Now
}

type invitationService struct {
	tx             invitation.Transactor
	invitationRepo invitation.InvitationRepository
	rsvpRepo       invitation.RSVPRepository
	jwtService     jwt.Service
	photos         invitation.PhotoRemover
	cfg            Config
}

func NewInvitationService(
	tx invitation.Transactor,
	invitationRepo invitation.InvitationRepository,
	rsvpRepo invitation.RSVPRepository,
	jwtService jwt.Service,
	photos invitation.PhotoRemover,
	cfg Config,
) invitation.Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &invitationService{
		tx:             tx,
		invitationRepo: invitationRepo,
		rsvpRepo:       rsvpRepo,
		jwtService:     jwtService,
		photos:         photos,
		cfg:            cfg,
	}
}

// CreateDraft implements invitation.Service.
func (s *invitationService) CreateDraft(ctx context.Context, req invitation.CreateRequest) (invitation.CreateResponse, error) {
	if err := req.Validate(); err != nil {
		return invitation.CreateResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return invitation.CreateResponse{}, fmt.Errorf("failed to generate invitation id: %w", err)
	}

	now := s.cfg.Now().UTC()
	eventDate := req.ParsedEventDate()
	expiresAt := invitation.ExpiresAtFor(eventDate)

	// Issue the host token before persisting so a failure leaves no orphan draft
	manageToken, err := s.jwtService.GenerateHostToken(id.String(), expiresAt)
	if err != nil {
		return invitation.CreateResponse{}, fmt.Errorf("failed to generate host token: %w", err)
	}

	photos := make([]string, 0, len(req.Photos))
	for _, photo := range req.Photos {
		photos = append(photos, strings.TrimSpace(photo))
	}

	var phone *string
	if req.Phone != nil {
		phone = optional(validator.NormalizePhone(*req.Phone))
	}

	created, err := s.invitationRepo.Create(ctx, invitation.Invitation{
		ID:            id.String(),
		EventType:     req.EventType,
		PlanType:      req.PlanType,
		Title:         strings.TrimSpace(req.Title),
		HostName1:     strings.TrimSpace(req.HostName1),
		HostName2:     trimmed(req.HostName2),
		Description:   trimmed(req.Description),
		EventDate:     eventDate,
		EventTime:     trimmed(req.EventTime),
		Location:      trimmed(req.Location),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         phone,
		CustomMessage: trimmed(req.CustomMessage),
		MusicURL:      trimmed(req.MusicURL),
		Photos:        photos,
		Status:        invitation.StatusDraft,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
	})
	if err != nil {
		return invitation.CreateResponse{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	return invitation.CreateResponse{
		ID:          created.ID,
		ShareURL:    invitation.PublicURL(s.cfg.PublicBaseURL, created.ID),
		ManageToken: manageToken,
		Status:      created.Status,
		ExpiresAt:   created.ExpiresAt,
	}, nil
}

// GetPublicInvitation implements invitation.Service.
func (s *invitationService) GetPublicInvitation(ctx context.Context, id string) (invitation.InvitationResponse, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}

	if err := s.ensureViewable(inv); err != nil {
		return invitation.InvitationResponse{}, err
	}

	viewCount, err := s.invitationRepo.IncrementViewCount(ctx, inv.ID)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to record view: %w", err)
	}
	inv.ViewCount = viewCount

	rsvps, err := s.rsvpRepo.ListByInvitationID(ctx, inv.ID)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to list rsvps: %w", err)
	}

	return s.toResponse(inv, rsvps), nil
}

// RecordRSVP implements invitation.Service.
// rsvpCount is the running total of guests over every attending RSVP.
func (s *invitationService) RecordRSVP(ctx context.Context, invitationID string, req invitation.RSVPRequest) (invitation.RecordRSVPResponse, error) {
	if err := req.Validate(); err != nil {
		return invitation.RecordRSVPResponse{}, err
	}

	inv, err := s.load(ctx, invitationID)
	if err != nil {
		return invitation.RecordRSVPResponse{}, err
	}
	if err := s.ensureViewable(inv); err != nil {
		return invitation.RecordRSVPResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return invitation.RecordRSVPResponse{}, fmt.Errorf("failed to generate rsvp id: %w", err)
	}

	var guestEmail, guestPhone *string
	if req.GuestEmail != nil {
		guestEmail = optional(strings.ToLower(strings.TrimSpace(*req.GuestEmail)))
	}
	if req.GuestPhone != nil {
		guestPhone = optional(validator.NormalizePhone(*req.GuestPhone))
	}

	var (
		created   invitation.RSVP
		rsvpCount int
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.rsvpRepo.Create(ctx, invitation.RSVP{
			ID:           id.String(),
			InvitationID: inv.ID,
			GuestName:    strings.TrimSpace(req.GuestName),
			GuestEmail:   guestEmail,
			GuestPhone:   guestPhone,
			Attending:    *req.Attending,
			GuestsCount:  *req.GuestsCount,
			Message:      trimmed(req.Message),
			CreatedAt:    s.cfg.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to create rsvp: %w", err)
		}

		rsvpCount, err = s.invitationRepo.RefreshRSVPCount(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("failed to refresh rsvp count: %w", err)
		}
		return nil
	})
	if err != nil {
		return invitation.RecordRSVPResponse{}, err
	}

	return invitation.RecordRSVPResponse{
		RSVP:      toRSVPResponse(created),
		RSVPCount: rsvpCount,
	}, nil
}

// GetHostInvitation implements invitation.Service. Drafts are visible and
// views are not counted.
func (s *invitationService) GetHostInvitation(ctx context.Context, id string) (invitation.HostInvitationResponse, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return invitation.HostInvitationResponse{}, err
	}
	if inv.IsExpired(s.cfg.Now()) {
		return invitation.HostInvitationResponse{}, invitation.ErrInvitationExpired
	}

	rsvps, err := s.rsvpRepo.ListByInvitationID(ctx, inv.ID)
	if err != nil {
		return invitation.HostInvitationResponse{}, fmt.Errorf("failed to list rsvps: %w", err)
	}

	return invitation.HostInvitationResponse{
		InvitationResponse: s.toResponse(inv, rsvps),
		Email:              inv.Email,
		Phone:              inv.Phone,
	}, nil
}

// ListGuests implements invitation.Service.
func (s *invitationService) ListGuests(ctx context.Context, id string) (invitation.GuestListResponse, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return invitation.GuestListResponse{}, err
	}
	if inv.IsExpired(s.cfg.Now()) {
		return invitation.GuestListResponse{}, invitation.ErrInvitationExpired
	}

	rsvps, err := s.rsvpRepo.ListByInvitationID(ctx, inv.ID)
	if err != nil {
		return invitation.GuestListResponse{}, fmt.Errorf("failed to list rsvps: %w", err)
	}

	return invitation.GuestListResponse{
		RSVPCount: inv.RSVPCount,
		RSVPs:     toRSVPResponses(rsvps),
	}, nil
}

// PurgeExpired implements invitation.Service. Photo deletion is best
// effort; the rows are already gone when it runs.
func (s *invitationService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.invitationRepo.DeleteExpired(ctx, s.cfg.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired invitations: %w", err)
	}

	for _, inv := range purged {
		for _, photo := range inv.Photos {
			if err := s.photos.DeletePhoto(ctx, photo); err != nil {
				slog.Warn("Failed to delete photo of purged invitation",
					"invitation_id", inv.ID,
					"photo", photo,
					"error", err,
				)
			}
		}
	}

	return int64(len(purged)), nil
}

// ensureViewable tells an expired invitation apart from an unpaid one.
func (s *invitationService) ensureViewable(inv invitation.Invitation) error {
	now := s.cfg.Now()
	if inv.IsPubliclyViewable(now) {
		return nil
	}
	if inv.IsExpired(now) {
		return invitation.ErrInvitationExpired
	}
	return invitation.ErrInvitationNotReady
}

func (s *invitationService) load(ctx context.Context, id string) (invitation.Invitation, error) {
	if validator.IsEmpty(id) {
		return invitation.Invitation{}, invitation.ErrInvitationNotFound
	}
	return s.invitationRepo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *invitationService) toResponse(inv invitation.Invitation, rsvps []invitation.RSVP) invitation.InvitationResponse {
	photos := inv.Photos
	if photos == nil {
		photos = []string{}
	}

	return invitation.InvitationResponse{
		ID:            inv.ID,
		EventType:     inv.EventType,
		PlanType:      inv.PlanType,
		Title:         inv.Title,
		HostName1:     inv.HostName1,
		HostName2:     inv.HostName2,
		Description:   inv.Description,
		EventDate:     inv.EventDate.Format("2006-01-02"),
		EventTime:     inv.EventTime,
		Location:      inv.Location,
		CustomMessage: inv.CustomMessage,
		MusicURL:      inv.MusicURL,
		Photos:        photos,
		Status:        inv.Status,
		QRCodeURL:     inv.QRCodeURL,
		ShareURL:      invitation.PublicURL(s.cfg.PublicBaseURL, inv.ID),
		ViewCount:     inv.ViewCount,
		RSVPCount:     inv.RSVPCount,
		ExpiresAt:     inv.ExpiresAt,
		CreatedAt:     inv.CreatedAt,
		RSVPs:         toRSVPResponses(rsvps),
	}
}

func toRSVPResponses(rsvps []invitation.RSVP) []invitation.RSVPResponse {
	out := make([]invitation.RSVPResponse, len(rsvps))
	for i, r := range rsvps {
		out[i] = toRSVPResponse(r)
	}
	return out
}

func toRSVPResponse(r invitation.RSVP) invitation.RSVPResponse {
	return invitation.RSVPResponse{
		ID:          r.ID,
		GuestName:   r.GuestName,
		GuestEmail:  r.GuestEmail,
		GuestPhone:  r.GuestPhone,
		Attending:   r.Attending,
		GuestsCount: r.GuestsCount,
		Message:     r.Message,
		CreatedAt:   r.CreatedAt,
	}
}

// trimmed drops blank optional text.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(strings.TrimSpace(*s))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

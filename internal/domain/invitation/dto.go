package invitation

import (
	"fmt"
	"strings"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/pkg/validator"
)

// CreateRequest is the invitation payload collected by the editor wizard.
type CreateRequest struct {
	EventType     EventType `json:"eventType"`
	PlanType      PlanType  `json:"planType"`
	Title         string    `json:"title"`
	HostName1     string    `json:"hostName1"`
	HostName2     *string   `json:"hostName2,omitempty"`
	Description   *string   `json:"description,omitempty"`
	EventDate     string    `json:"eventDate"`
	EventTime     *string   `json:"eventTime,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	CustomMessage *string   `json:"customMessage,omitempty"`
	MusicURL      *string   `json:"musicUrl,omitempty"`
	Photos        []string  `json:"photos,omitempty"`
}

// Validate reports every violated field at once.
func (r *CreateRequest) Validate() error {
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

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if !validator.HasMinLength(r.Title, 3) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must be at least 3 characters",
		})
	}

	if validator.IsEmpty(r.HostName1) {
		errs = append(errs, validator.ValidationError{
			Field:   "hostName1",
			Message: "hostName1 is required",
		})
	} else if !validator.HasMinLength(r.HostName1, 2) {
		errs = append(errs, validator.ValidationError{
			Field:   "hostName1",
			Message: "hostName1 must be at least 2 characters",
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

	if validator.IsEmpty(r.EventDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "eventDate",
			Message: "eventDate is required",
		})
	} else if _, ok := validator.ParseCalendarDate(r.EventDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "eventDate",
			Message: "eventDate must be in YYYY-MM-DD format",
		})
	}

	hasMusic := r.MusicURL != nil && !validator.IsEmpty(*r.MusicURL)
	if hasMusic && !validator.IsValidURL(*r.MusicURL) {
		errs = append(errs, validator.ValidationError{
			Field:   "musicUrl",
			Message: "musicUrl must be a valid URL",
		})
	}

	// Plan allowances only apply once the plan itself is known.
	if r.PlanType.IsValid() {
		if len(r.Photos) > r.PlanType.MaxPhotos() {
			errs = append(errs, validator.ValidationError{
				Field:   "photos",
				Message: fmt.Sprintf("the %s plan allows at most %d photos", r.PlanType, r.PlanType.MaxPhotos()),
			})
		}
		if !r.PlanType.AllowsPremiumContent() {
			if hasMusic {
				errs = append(errs, validator.ValidationError{
					Field:   "musicUrl",
					Message: "musicUrl is available on the PREMIUM plan only",
				})
			}
			if r.CustomMessage != nil && !validator.IsEmpty(*r.CustomMessage) {
				errs = append(errs, validator.ValidationError{
					Field:   "customMessage",
					Message: "customMessage is available on the PREMIUM plan only",
				})
			}
		}
	}

	for i, photo := range r.Photos {
		if validator.IsEmpty(photo) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("photos[%d]", i),
				Message: "photo reference must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParsedEventDate returns the event date of a validated request.
func (r *CreateRequest) ParsedEventDate() time.Time {
	d, _ := validator.ParseCalendarDate(r.EventDate)
	return d
}

type CreateResponse struct {
	ID          string    `json:"id"`
	ShareURL    string    `json:"shareUrl"`
	ManageToken string    `json:"manageToken"`
	Status      Status    `json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// RSVPRequest is a guest's response. Pointer fields distinguish absent from zero.
type RSVPRequest struct {
	GuestName   string  `json:"guestName"`
	GuestEmail  *string `json:"guestEmail,omitempty"`
	GuestPhone  *string `json:"guestPhone,omitempty"`
	Attending   *bool   `json:"attending"`
	GuestsCount *int    `json:"guestsCount"`
	Message     *string `json:"message,omitempty"`
}

const (
	MinGuestsCount = 1
	MaxGuestsCount = 10
)

func (r *RSVPRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.GuestName) {
		errs = append(errs, validator.ValidationError{
			Field:   "guestName",
			Message: "guestName is required",
		})
	} else if !validator.HasMinLength(r.GuestName, 2) {
		errs = append(errs, validator.ValidationError{
			Field:   "guestName",
			Message: "guestName must be at least 2 characters",
		})
	}

	if r.GuestEmail != nil && !validator.IsEmpty(*r.GuestEmail) && !validator.IsValidEmail(strings.TrimSpace(*r.GuestEmail)) {
		errs = append(errs, validator.ValidationError{
			Field:   "guestEmail",
			Message: "guestEmail format is invalid",
		})
	}

	if r.Attending == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "attending",
			Message: "attending is required",
		})
	}

	if r.GuestsCount == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "guestsCount",
			Message: "guestsCount is required",
		})
	} else if *r.GuestsCount < MinGuestsCount || *r.GuestsCount > MaxGuestsCount {
		errs = append(errs, validator.ValidationError{
			Field:   "guestsCount",
			Message: fmt.Sprintf("guestsCount must be between %d and %d", MinGuestsCount, MaxGuestsCount),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RSVPResponse struct {
	ID          string    `json:"id"`
	GuestName   string    `json:"guestName"`
	GuestEmail  *string   `json:"guestEmail,omitempty"`
	GuestPhone  *string   `json:"guestPhone,omitempty"`
	Attending   bool      `json:"attending"`
	GuestsCount int       `json:"guestsCount"`
	Message     *string   `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RecordRSVPResponse struct {
	RSVP      RSVPResponse `json:"rsvp"`
	RSVPCount int          `json:"rsvpCount"`
}

type InvitationResponse struct {
	ID            string         `json:"id"`
	EventType     EventType      `json:"eventType"`
	PlanType      PlanType       `json:"planType"`
	Title         string         `json:"title"`
	HostName1     string         `json:"hostName1"`
	HostName2     *string        `json:"hostName2,omitempty"`
	Description   *string        `json:"description,omitempty"`
	EventDate     string         `json:"eventDate"`
	EventTime     *string        `json:"eventTime,omitempty"`
	Location      *string        `json:"location,omitempty"`
	CustomMessage *string        `json:"customMessage,omitempty"`
	MusicURL      *string        `json:"musicUrl,omitempty"`
	Photos        []string       `json:"photos"`
	Status        Status         `json:"status"`
	QRCodeURL     *string        `json:"qrCodeUrl,omitempty"`
	ShareURL      string         `json:"shareUrl"`
	ViewCount     int            `json:"viewCount"`
	RSVPCount     int            `json:"rsvpCount"`
	ExpiresAt     time.Time      `json:"expiresAt"`
	CreatedAt     time.Time      `json:"createdAt"`
	RSVPs         []RSVPResponse `json:"rsvps"`
}

// HostInvitationResponse adds the contact fields only the host may see.
type HostInvitationResponse struct {
	InvitationResponse
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type GuestListResponse struct {
	RSVPCount int            `json:"rsvpCount"`
	RSVPs     []RSVPResponse `json:"rsvps"`
}

package invitation

import (
	"strings"
	"time"
)

// RetentionDays is how long an invitation stays reachable after its event date.
const RetentionDays = 30

type EventType string

const (
	EventTypeWedding    EventType = "WEDDING"
	EventTypeBirthday   EventType = "BIRTHDAY"
	EventTypeBabyShower EventType = "BABY_SHOWER"
	EventTypeGraduation EventType = "GRADUATION"
	EventTypeOther      EventType = "OTHER"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventTypeWedding, EventTypeBirthday, EventTypeBabyShower, EventTypeGraduation, EventTypeOther:
		return true
	}
	return false
}

type PlanType string

const (
	PlanTypeBasic   PlanType = "BASIC"
	PlanTypePremium PlanType = "PREMIUM"
)

func (p PlanType) IsValid() bool {
	return p == PlanTypeBasic || p == PlanTypePremium
}

// MaxPhotos returns the photo allowance of the plan.
func (p PlanType) MaxPhotos() int {
	if p == PlanTypePremium {
		return 10
	}
	return 3
}

// AllowsPremiumContent reports whether music and a custom message are included.
func (p PlanType) AllowsPremiumContent() bool {
	return p == PlanTypePremium
}

type Status string

const (
	StatusDraft Status = "DRAFT"
	StatusPaid  Status = "PAID"
)

type Invitation struct {
	ID            string
	EventType     EventType
	PlanType      PlanType
	Title         string
	HostName1     string
	HostName2     *string
	Description   *string
	EventDate     time.Time
	EventTime     *string
	Location      *string
	Email         string
	Phone         *string
	CustomMessage *string
	MusicURL      *string
	Photos        []string
	Status        Status
	QRCodeURL     *string
	ViewCount     int
	RSVPCount     int
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpired reports whether the retention window has closed at now.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

func (i *Invitation) IsPaid() bool {
	return i.Status == StatusPaid
}

// IsPubliclyViewable holds iff the invitation is paid and not expired.
func (i *Invitation) IsPubliclyViewable(now time.Time) bool {
	return i.IsPaid() && !i.IsExpired(now)
}

// ExpiresAtFor computes the expiry instant of an event date.
func ExpiresAtFor(eventDate time.Time) time.Time {
	return eventDate.AddDate(0, 0, RetentionDays)
}

type RSVP struct {
	ID           string
	InvitationID string
	GuestName    string
	GuestEmail   *string
	GuestPhone   *string
	Attending    bool
	GuestsCount  int
	Message      *string
	CreatedAt    time.Time
}

// PublicURL is the shareable page of an invitation.
func PublicURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/i/" + id
}

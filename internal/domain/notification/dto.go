package notification

import "time"

// InvitationReadyMessage is the email sent to the host after activation.
type InvitationReadyMessage struct {
	InvitationID  string
	To            string
	HostName      string
	Title         string
	EventDate     time.Time
	InvitationURL string
	QRCodeDataURL string
	ExpiresAt     time.Time
}

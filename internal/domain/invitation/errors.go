package invitation

import "errors"

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationNotReady = errors.New("invitation is not published yet")
	ErrInvalidHostToken   = errors.New("invalid host token")
)

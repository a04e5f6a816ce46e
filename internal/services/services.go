package services

import "errors"

var (
	ErrMissingFields     = errors.New("title and description are required")
	ErrEmailInUse        = errors.New("email already in use")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrNotOwner          = errors.New("unauthorized action")
	ErrNotTeamMember     = errors.New("name is not on the proposal's team roster")
	ErrResetTokenExpired = errors.New("password reset token expired")
	ErrNoSubscription    = errors.New("no active subscription")
)

// Broadcaster pushes vote events to realtime subscribers of a proposal room.
type Broadcaster interface {
	BroadcastVote(room, event string, vote any)
}

// NopBroadcaster is used when the websocket relay is disabled (tests, CLI).
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastVote(room, event string, vote any) {}

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultInviteTTL bounds how long an invitation stays answerable.
const DefaultInviteTTL = 5 * time.Minute

// Invitation is a time-boxed offer of membership. At most one live invitation
// exists per target player; a new offer is rejected while an unexpired one is
// pending.
type Invitation struct {
	InviterID   uuid.UUID
	InviterName string
	TargetID    uuid.UUID
	Clan        *Clan
	CreatedAt   time.Time
	TTL         time.Duration
}

// ExpiresAt returns the instant the invitation stops being answerable.
func (i *Invitation) ExpiresAt() time.Time { return i.CreatedAt.Add(i.TTL) }

// Expired reports whether the invitation is past its TTL at the given time.
func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt())
}

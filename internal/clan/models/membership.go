package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a member's rank inside a clan. Ordering is Founder > Leader >
// Member; only the founder may promote, demote, or transfer foundership, and
// the founder can never be kicked or demoted.
type Role int

const (
	RoleMember Role = iota
	RoleLeader
	RoleFounder
)

func (r Role) String() string {
	switch r {
	case RoleFounder:
		return "founder"
	case RoleLeader:
		return "leader"
	default:
		return "member"
	}
}

// ParseRole maps a persisted role string back to its Role. Unknown values
// degrade to RoleMember so a bad row can never mint an extra founder.
func ParseRole(s string) Role {
	switch s {
	case "founder":
		return RoleFounder
	case "leader":
		return RoleLeader
	default:
		return RoleMember
	}
}

// Membership associates a player with at most one clan. The Clan pointer is a
// weak reference into the registry; the membership index does not own it.
// A nil Clan means the player is known but clanless.
type Membership struct {
	PlayerID   uuid.UUID
	PlayerName string
	Clan       *Clan
	Role       Role
	JoinedAt   time.Time
	LastSeenAt time.Time
	Kills      int
	Deaths     int
}

// InClan reports whether the membership currently references a clan.
func (m *Membership) InClan() bool { return m.Clan != nil }

// SameClanAs reports whether both memberships reference the same clan.
func (m *Membership) SameClanAs(other *Membership) bool {
	return m.Clan != nil && other.Clan != nil && m.Clan.ID == other.Clan.ID
}

// Detach resets the membership to its clanless state. Role is reset to
// RoleMember so a stale record can never carry rank into a future clan.
func (m *Membership) Detach() {
	m.Clan = nil
	m.Role = RoleMember
}

// KDR returns the kill/death ratio; deaths are floored at one so fresh
// members do not divide by zero.
func (m *Membership) KDR() float64 {
	deaths := m.Deaths
	if deaths == 0 {
		deaths = 1
	}
	return float64(m.Kills) / float64(deaths)
}

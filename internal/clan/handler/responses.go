package handler

import (
	"time"

	"github.com/google/uuid"

	"clanhall/internal/clan/models"
)

// ResultResponse reports a mutation's closed-set outcome.
type ResultResponse struct {
	Result string `json:"result"`
}

// ClanResponse is the public view of a clan.
type ClanResponse struct {
	ID            uuid.UUID `json:"id"`
	Tag           string    `json:"tag"`
	Name          string    `json:"name"`
	FounderName   string    `json:"founder_name"`
	FriendlyFire  bool      `json:"friendly_fire"`
	PenaltyPoints int       `json:"penalty_points"`
	RankingPoints int       `json:"ranking_points"`
	MemberCount   int       `json:"member_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// RosterEntry is one member in a clan roster.
type RosterEntry struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Role       string    `json:"role"`
	Kills      int       `json:"kills"`
	Deaths     int       `json:"deaths"`
	KDR        float64   `json:"kdr"`
	JoinedAt   time.Time `json:"joined_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// RelationResponse is one symmetric clan relation seen from a clan.
type RelationResponse struct {
	ClanID uuid.UUID `json:"clan_id"`
	Tag    string    `json:"tag"`
	Name   string    `json:"name"`
	Type   string    `json:"type"`
}

// FromClan converts a cached clan to its public view.
func FromClan(c *models.Clan, memberCount int) *ClanResponse {
	return &ClanResponse{
		ID:            c.ID,
		Tag:           c.Tag,
		Name:          c.Name,
		FounderName:   c.FounderName,
		FriendlyFire:  c.FriendlyFire,
		PenaltyPoints: c.PenaltyPoints,
		RankingPoints: c.RankingPoints,
		MemberCount:   memberCount,
		CreatedAt:     c.CreatedAt,
	}
}

// FromMembership converts a cached membership to a roster entry.
func FromMembership(m *models.Membership) RosterEntry {
	return RosterEntry{
		PlayerID:   m.PlayerID,
		PlayerName: m.PlayerName,
		Role:       m.Role.String(),
		Kills:      m.Kills,
		Deaths:     m.Deaths,
		KDR:        m.KDR(),
		JoinedAt:   m.JoinedAt,
		LastSeenAt: m.LastSeenAt,
	}
}

package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"clanhall/pkg/clanerrors"
)

// Tag and name constraints. Tags are short battle identifiers rendered in
// front of player names; names are the full clan title.
const (
	TagMinLen  = 2
	TagMaxLen  = 6
	NameMinLen = 2
	NameMaxLen = 32
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Clan is the aggregate root for a player clan.
//
// Invariants:
//   - Tag and Name are unique across the system, case-insensitive
//   - PenaltyPoints is never negative; it decreases only through explicit
//     removal, revert, or pardon operations
//   - Exactly one membership referencing this clan holds RoleFounder
//     (enforced by the membership service, not by this struct)
//   - CreatedAt is immutable after construction
type Clan struct {
	ID            uuid.UUID `json:"id"`
	Tag           string    `json:"tag"`
	Name          string    `json:"name"`
	FounderName   string    `json:"founder_name"`
	FriendlyFire  bool      `json:"friendly_fire"`
	PenaltyPoints int       `json:"penalty_points"`
	RankingPoints int       `json:"ranking_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewClan validates tag and name and builds a clan owned by founderName.
func NewClan(id uuid.UUID, tag, name, founderName string, rankingPoints int, now time.Time) (*Clan, error) {
	tag = strings.TrimSpace(tag)
	name = strings.TrimSpace(name)
	if len(tag) < TagMinLen || len(tag) > TagMaxLen {
		return nil, clanerrors.Newf(clanerrors.CodeValidation, "clan tag must be %d-%d characters", TagMinLen, TagMaxLen)
	}
	if !tagPattern.MatchString(tag) {
		return nil, clanerrors.New(clanerrors.CodeValidation, "clan tag must be alphanumeric")
	}
	if len(name) < NameMinLen || len(name) > NameMaxLen {
		return nil, clanerrors.Newf(clanerrors.CodeValidation, "clan name must be %d-%d characters", NameMinLen, NameMaxLen)
	}
	if founderName == "" {
		return nil, clanerrors.New(clanerrors.CodeValidation, "founder name is required")
	}
	return &Clan{
		ID:            id,
		Tag:           tag,
		Name:          name,
		FounderName:   founderName,
		RankingPoints: rankingPoints,
		CreatedAt:     now,
	}, nil
}

// NormalizeTag lower-cases a tag or name for case-insensitive index keys.
// Write and read paths must both go through this so lookups never miss.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

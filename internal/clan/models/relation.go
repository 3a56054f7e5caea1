package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RelationType is the kind of link between two clans. Ally and rival are
// mutually exclusive for the same pair.
type RelationType int

const (
	RelationAlly RelationType = iota
	RelationRival
)

func (t RelationType) String() string {
	if t == RelationRival {
		return "rival"
	}
	return "ally"
}

// ParseRelationType maps a persisted relation string back to its type.
func ParseRelationType(s string) RelationType {
	if s == "rival" {
		return RelationRival
	}
	return RelationAlly
}

// Relation links an unordered pair of clans. At most one relation exists per
// pair regardless of argument order.
type Relation struct {
	ClanA     uuid.UUID
	ClanB     uuid.UUID
	Type      RelationType
	CreatedAt time.Time
}

// PairKey returns the canonical encoding of an unordered clan pair: the two
// ids sorted ascending, joined with a single colon. Every read and write of
// the relation graph and the relations table must key through this function;
// any second encoding would silently break lookup symmetry.
func PairKey(a, b uuid.UUID) string {
	as, bs := a.String(), b.String()
	if strings.Compare(as, bs) > 0 {
		as, bs = bs, as
	}
	return as + ":" + bs
}

// Key returns the relation's canonical pair key.
func (r *Relation) Key() string { return PairKey(r.ClanA, r.ClanB) }

// Involves reports whether the relation touches the given clan.
func (r *Relation) Involves(clanID uuid.UUID) bool {
	return r.ClanA == clanID || r.ClanB == clanID
}

// Other returns the counterpart clan id for one side of the pair.
func (r *Relation) Other(clanID uuid.UUID) uuid.UUID {
	if r.ClanA == clanID {
		return r.ClanB
	}
	return r.ClanA
}

package registry

import (
	"strings"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"clanhall/internal/clan/models"
)

// MembershipIndex maps player ids to membership records for O(1) role and
// clan queries. Records whose clan reference is cleared are evicted rather
// than kept clanless, so the index never grows past the active population.
type MembershipIndex struct {
	members *xsync.MapOf[uuid.UUID, *models.Membership]
}

// NewMembershipIndex constructs an empty index.
func NewMembershipIndex() *MembershipIndex {
	return &MembershipIndex{members: xsync.NewMapOf[uuid.UUID, *models.Membership]()}
}

// Insert adds or replaces a membership record.
func (idx *MembershipIndex) Insert(m *models.Membership) {
	idx.members.Store(m.PlayerID, m)
}

// Remove evicts a player's record.
func (idx *MembershipIndex) Remove(playerID uuid.UUID) {
	idx.members.Delete(playerID)
}

// Get returns the membership for a player, or nil.
func (idx *MembershipIndex) Get(playerID uuid.UUID) *models.Membership {
	m, _ := idx.members.Load(playerID)
	return m
}

// Count returns the number of indexed members.
func (idx *MembershipIndex) Count() int { return idx.members.Size() }

// MembersOf returns every member of the given clan.
func (idx *MembershipIndex) MembersOf(clanID uuid.UUID) []*models.Membership {
	var out []*models.Membership
	idx.members.Range(func(_ uuid.UUID, m *models.Membership) bool {
		if m.Clan != nil && m.Clan.ID == clanID {
			out = append(out, m)
		}
		return true
	})
	return out
}

// CountOf returns the member count of the given clan.
func (idx *MembershipIndex) CountOf(clanID uuid.UUID) int {
	n := 0
	idx.members.Range(func(_ uuid.UUID, m *models.Membership) bool {
		if m.Clan != nil && m.Clan.ID == clanID {
			n++
		}
		return true
	})
	return n
}

// FindByName returns the membership whose player name matches,
// case-insensitive, or nil.
func (idx *MembershipIndex) FindByName(name string) *models.Membership {
	var found *models.Membership
	idx.members.Range(func(_ uuid.UUID, m *models.Membership) bool {
		if strings.EqualFold(m.PlayerName, name) {
			found = m
			return false
		}
		return true
	})
	return found
}

// FounderOf returns the clan's founder membership, or nil when the clan has
// no cached members.
func (idx *MembershipIndex) FounderOf(clanID uuid.UUID) *models.Membership {
	var founder *models.Membership
	idx.members.Range(func(_ uuid.UUID, m *models.Membership) bool {
		if m.Clan != nil && m.Clan.ID == clanID && m.Role == models.RoleFounder {
			founder = m
			return false
		}
		return true
	})
	return founder
}

// Package presence tracks which players are currently reachable. Notification
// fan-out iterates online handles only, bounding cost by the online
// population rather than total clan membership.
package presence

import (
	"strings"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"clanhall/internal/clan/registry"
)

// Handle is a live connection to a player.
type Handle interface {
	PlayerID() uuid.UUID
	Name() string
	// Send delivers a free-text notification. Wording is presentation-layer;
	// delivery failures are the transport's problem, not the caller's.
	Send(message string) error
}

// Tracker maps player ids to live handles for the duration of a connection.
type Tracker struct {
	online *xsync.MapOf[uuid.UUID, Handle]
	index  *registry.MembershipIndex
}

// NewTracker constructs a presence tracker over the membership index.
func NewTracker(index *registry.MembershipIndex) *Tracker {
	return &Tracker{
		online: xsync.NewMapOf[uuid.UUID, Handle](),
		index:  index,
	}
}

// Connect registers a live handle for a player.
func (t *Tracker) Connect(h Handle) {
	t.online.Store(h.PlayerID(), h)
}

// Disconnect drops a player's handle.
func (t *Tracker) Disconnect(playerID uuid.UUID) {
	t.online.Delete(playerID)
}

// Lookup returns the live handle for a player, or nil when offline.
func (t *Tracker) Lookup(playerID uuid.UUID) Handle {
	h, _ := t.online.Load(playerID)
	return h
}

// OnlineCount returns the number of connected players.
func (t *Tracker) OnlineCount() int { return t.online.Size() }

// FindByName returns the handle of an online player by display name,
// case-insensitive, or nil when no such player is connected.
func (t *Tracker) FindByName(name string) Handle {
	var found Handle
	t.online.Range(func(_ uuid.UUID, h Handle) bool {
		if strings.EqualFold(h.Name(), name) {
			found = h
			return false
		}
		return true
	})
	return found
}

// NotifyClanMembers sends message to every online member of the clan except
// the excluded ids. Returns how many handles were notified.
func (t *Tracker) NotifyClanMembers(clanID uuid.UUID, exclude map[uuid.UUID]struct{}, message string) int {
	notified := 0
	t.online.Range(func(playerID uuid.UUID, h Handle) bool {
		if _, skip := exclude[playerID]; skip {
			return true
		}
		m := t.index.Get(playerID)
		if m == nil || m.Clan == nil || m.Clan.ID != clanID {
			return true
		}
		if err := h.Send(message); err == nil {
			notified++
		}
		return true
	})
	return notified
}

// NotifyPlayer sends message to one player when online. Returns whether the
// player was reachable.
func (t *Tracker) NotifyPlayer(playerID uuid.UUID, message string) bool {
	h := t.Lookup(playerID)
	if h == nil {
		return false
	}
	return h.Send(message) == nil
}

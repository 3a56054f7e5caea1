// Package identity resolves player references (uuid or display name) to a
// concrete player identity for handlers that target other players.
package identity

import (
	"context"

	"github.com/google/uuid"

	"clanhall/internal/clan/presence"
	"clanhall/internal/clan/registry"
	"clanhall/pkg/clanerrors"
)

// Player is a resolved player reference.
type Player struct {
	ID   uuid.UUID
	Name string
}

// Resolver turns a player reference into an identity. References are either
// a uuid string or a display name.
type Resolver interface {
	ResolvePlayer(ctx context.Context, ref string) (Player, error)
}

// CacheResolver resolves against the membership index and the online
// population. A uuid reference resolves even for clanless offline players;
// a name reference requires the player to be a member or online.
type CacheResolver struct {
	index    *registry.MembershipIndex
	presence *presence.Tracker
}

func NewCacheResolver(idx *registry.MembershipIndex, pres *presence.Tracker) *CacheResolver {
	return &CacheResolver{index: idx, presence: pres}
}

func (r *CacheResolver) ResolvePlayer(_ context.Context, ref string) (Player, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if m := r.index.Get(id); m != nil {
			return Player{ID: id, Name: m.PlayerName}, nil
		}
		if h := r.presence.Lookup(id); h != nil {
			return Player{ID: id, Name: h.Name()}, nil
		}
		return Player{ID: id}, nil
	}
	if m := r.index.FindByName(ref); m != nil {
		return Player{ID: m.PlayerID, Name: m.PlayerName}, nil
	}
	if h := r.presence.FindByName(ref); h != nil {
		return Player{ID: h.PlayerID(), Name: h.Name()}, nil
	}
	return Player{}, clanerrors.Newf(clanerrors.CodeNotFound, "unknown player %q", ref)
}

var _ Resolver = (*CacheResolver)(nil)

// Package registry holds the authoritative in-memory caches for clans and
// memberships. The maps are safe for concurrent reads from background work
// (HTTP queries, leaderboard refresh, cleanup scans); mutation stays confined
// to the single service writer, so compound invariants need no extra locking.
package registry

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"clanhall/internal/clan/models"
)

// Registry caches clan entities keyed by id with secondary case-insensitive
// tag and name indexes.
type Registry struct {
	clans  *xsync.MapOf[uuid.UUID, *models.Clan]
	byTag  *xsync.MapOf[string, uuid.UUID]
	byName *xsync.MapOf[string, uuid.UUID]
}

// NewRegistry constructs an empty clan registry.
func NewRegistry() *Registry {
	return &Registry{
		clans:  xsync.NewMapOf[uuid.UUID, *models.Clan](),
		byTag:  xsync.NewMapOf[string, uuid.UUID](),
		byName: xsync.NewMapOf[string, uuid.UUID](),
	}
}

// Insert adds a clan to the registry and its secondary indexes.
func (r *Registry) Insert(c *models.Clan) {
	r.clans.Store(c.ID, c)
	r.byTag.Store(models.NormalizeTag(c.Tag), c.ID)
	r.byName.Store(models.NormalizeTag(c.Name), c.ID)
}

// Remove evicts a clan and its index entries.
func (r *Registry) Remove(clanID uuid.UUID) {
	c, ok := r.clans.LoadAndDelete(clanID)
	if !ok {
		return
	}
	r.byTag.Delete(models.NormalizeTag(c.Tag))
	r.byName.Delete(models.NormalizeTag(c.Name))
}

// Get returns the clan for an id, or nil.
func (r *Registry) Get(clanID uuid.UUID) *models.Clan {
	c, _ := r.clans.Load(clanID)
	return c
}

// GetByTag resolves a clan by tag, case-insensitive.
func (r *Registry) GetByTag(tag string) *models.Clan {
	id, ok := r.byTag.Load(models.NormalizeTag(tag))
	if !ok {
		return nil
	}
	return r.Get(id)
}

// GetByName resolves a clan by full name, case-insensitive.
func (r *Registry) GetByName(name string) *models.Clan {
	id, ok := r.byName.Load(models.NormalizeTag(name))
	if !ok {
		return nil
	}
	return r.Get(id)
}

// TagTaken reports whether any cached clan already uses the tag.
func (r *Registry) TagTaken(tag string) bool {
	_, ok := r.byTag.Load(models.NormalizeTag(tag))
	return ok
}

// NameTaken reports whether any cached clan already uses the name.
func (r *Registry) NameTaken(name string) bool {
	_, ok := r.byName.Load(models.NormalizeTag(name))
	return ok
}

// Count returns the number of cached clans.
func (r *Registry) Count() int { return r.clans.Size() }

// All returns a snapshot slice of every cached clan.
func (r *Registry) All() []*models.Clan {
	out := make([]*models.Clan, 0, r.clans.Size())
	r.clans.Range(func(_ uuid.UUID, c *models.Clan) bool {
		out = append(out, c)
		return true
	})
	return out
}

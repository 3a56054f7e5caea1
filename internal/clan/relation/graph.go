// Package relation tracks ally/rival links between clans. The graph is keyed
// by one canonical unordered-pair encoding (models.PairKey) on both read and
// write paths, so lookups are symmetric by construction.
package relation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/store"
	"clanhall/pkg/clanerrors"
)

// Graph is the runtime cache of clan relations backed by the gateway.
// Reads are safe from any goroutine; mutation follows the persist-then-cache
// rule like every other clan mutation.
type Graph struct {
	gw        store.Gateway
	relations *xsync.MapOf[string, *models.Relation]
}

// NewGraph constructs an empty relation graph.
func NewGraph(gw store.Gateway) *Graph {
	return &Graph{
		gw:        gw,
		relations: xsync.NewMapOf[string, *models.Relation](),
	}
}

// Load replaces cache content from bootstrap records.
func (g *Graph) Load(relations []*models.Relation) {
	for _, r := range relations {
		g.relations.Store(r.Key(), r)
	}
}

// Set creates or retypes the relation between two clans. Ally and rival are
// mutually exclusive, so setting one kind replaces the other.
func (g *Graph) Set(ctx context.Context, a, b uuid.UUID, t models.RelationType, now time.Time) error {
	if a == b {
		return clanerrors.New(clanerrors.CodeValidation, "a clan cannot relate to itself")
	}
	r := &models.Relation{ClanA: a, ClanB: b, Type: t, CreatedAt: now}
	if err := g.gw.SaveRelation(ctx, r); err != nil {
		return clanerrors.Wrap(err, clanerrors.CodePersistence, "save relation")
	}
	g.relations.Store(r.Key(), r)
	return nil
}

// Remove deletes any relation between the pair.
func (g *Graph) Remove(ctx context.Context, a, b uuid.UUID) error {
	if err := g.gw.DeleteRelation(ctx, a, b); err != nil {
		return clanerrors.Wrap(err, clanerrors.CodePersistence, "delete relation")
	}
	g.relations.Delete(models.PairKey(a, b))
	return nil
}

// Get returns the relation for a pair, or nil.
func (g *Graph) Get(a, b uuid.UUID) *models.Relation {
	r, _ := g.relations.Load(models.PairKey(a, b))
	return r
}

// AreAllies reports whether two clans are allied. Symmetric in its arguments.
func (g *Graph) AreAllies(a, b uuid.UUID) bool {
	r := g.Get(a, b)
	return r != nil && r.Type == models.RelationAlly
}

// AreRivals reports whether two clans are rivals. Symmetric in its arguments.
func (g *Graph) AreRivals(a, b uuid.UUID) bool {
	r := g.Get(a, b)
	return r != nil && r.Type == models.RelationRival
}

// RelationsOf returns every relation touching the given clan.
func (g *Graph) RelationsOf(clanID uuid.UUID) []*models.Relation {
	var out []*models.Relation
	g.relations.Range(func(_ string, r *models.Relation) bool {
		if r.Involves(clanID) {
			out = append(out, r)
		}
		return true
	})
	return out
}

// DropClan evicts all cached relations for a disbanded clan. The persisted
// rows go away inside the clan delete transaction.
func (g *Graph) DropClan(clanID uuid.UUID) {
	g.relations.Range(func(key string, r *models.Relation) bool {
		if r.Involves(clanID) {
			g.relations.Delete(key)
		}
		return true
	})
}

// Count returns the number of cached relations.
func (g *Graph) Count() int { return g.relations.Size() }

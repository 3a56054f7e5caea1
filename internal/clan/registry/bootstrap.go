package registry

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/store"
)

// RelationSink receives relations materialized at the end of bootstrap.
type RelationSink interface {
	Load(relations []*models.Relation)
}

// Bootstrap fills the caches from the gateway using a two-pass protocol.
//
// Pass 1 loads clan, membership, and relation records concurrently as plain
// data with no cross-references resolved. Pass 2 materializes every clan into
// the registry first, and only then materializes memberships, resolving each
// clan reference against the now-complete registry. This removes any
// dependency on row order: a membership row may reference a clan that would
// not exist yet if rows were resolved as loaded. Relations go last, once both
// sides of every pair exist.
func Bootstrap(ctx context.Context, gw store.Gateway, reg *Registry, idx *MembershipIndex, relations RelationSink, logger *slog.Logger) error {
	var (
		clans   []*models.Clan
		records []store.MembershipRecord
		links   []*models.Relation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clans, err = gw.LoadClans(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = gw.LoadMemberships(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = gw.LoadRelations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("bootstrap load: %w", err)
	}

	for _, c := range clans {
		reg.Insert(c)
	}

	orphans := 0
	for _, rec := range records {
		m := &models.Membership{
			PlayerID:   rec.PlayerID,
			PlayerName: rec.PlayerName,
			Role:       models.ParseRole(rec.Role),
			JoinedAt:   rec.JoinedAt,
			LastSeenAt: rec.LastSeenAt,
			Kills:      rec.Kills,
			Deaths:     rec.Deaths,
		}
		if rec.ClanID.Valid {
			if clan := reg.Get(rec.ClanID.UUID); clan != nil {
				m.Clan = clan
			} else {
				// Row references a clan that no longer exists; load it
				// clanless rather than dropping the player's stats.
				orphans++
				m.Role = models.RoleMember
			}
		}
		idx.Insert(m)
	}

	relations.Load(links)

	logger.Info("clan caches bootstrapped",
		"clans", len(clans),
		"memberships", len(records),
		"relations", len(links),
		"orphaned_memberships", orphans,
	)
	return nil
}

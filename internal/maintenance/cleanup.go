// Package maintenance hosts background workers that tidy clan state.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/presence"
	"clanhall/internal/clan/registry"
	"clanhall/internal/clan/store"
	"clanhall/internal/platform/config"
)

const sweepInterval = time.Hour

// MemberRemover detaches a member the same way a voluntary leave does, so the
// sweep reuses the service's persistence and eviction path.
type MemberRemover interface {
	RemovePlayerFromClan(ctx context.Context, playerID uuid.UUID) (models.RemovePlayerResult, error)
}

// Cleanup removes members who have not been seen within the configured
// window. Founders are never removed automatically; the sweep reports them to
// the log instead.
type Cleanup struct {
	gw       store.Gateway
	remover  MemberRemover
	index    *registry.MembershipIndex
	presence *presence.Tracker
	cfg      config.CleanupConfig
	logger   *slog.Logger
}

func New(gw store.Gateway, remover MemberRemover, idx *registry.MembershipIndex, pres *presence.Tracker, cfg config.CleanupConfig, logger *slog.Logger) *Cleanup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleanup{gw: gw, remover: remover, index: idx, presence: pres, cfg: cfg, logger: logger}
}

// Run sweeps hourly until ctx is cancelled. A no-op when the worker is
// disabled.
func (c *Cleanup) Run(ctx context.Context) {
	if !c.cfg.Enabled {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Sweep(ctx); err != nil {
				c.logger.Error("inactivity sweep failed", "err", err)
			}
		}
	}
}

// Sweep removes one batch of inactive members and returns how many were
// removed.
func (c *Cleanup) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -c.cfg.InactiveDays)
	ids, err := c.gw.InactiveMemberIDs(ctx, cutoff, c.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list inactive members: %w", err)
	}

	removed := 0
	for _, id := range ids {
		m := c.index.Get(id)
		if m == nil || !m.InClan() {
			continue
		}
		if m.Role == models.RoleFounder {
			c.logger.Info("skipping inactive founder", "player", id, "clan", m.Clan.ID)
			continue
		}
		clan := m.Clan
		name := m.PlayerName
		res, err := c.remover.RemovePlayerFromClan(ctx, id)
		if err != nil {
			c.logger.Error("inactive removal failed", "player", id, "err", err)
			continue
		}
		if res != models.RemovePlayerSuccess {
			continue
		}
		removed++
		if c.cfg.NotifyFounders && c.presence != nil {
			if founder := c.index.FounderOf(clan.ID); founder != nil {
				c.presence.NotifyPlayer(founder.PlayerID,
					fmt.Sprintf("%s was removed from [%s] after %d days of inactivity",
						name, clan.Tag, c.cfg.InactiveDays))
			}
		}
	}
	if removed > 0 {
		c.logger.Info("inactivity sweep completed", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

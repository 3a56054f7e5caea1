// Package invite tracks pending clan invitations. Each target player has at
// most one live invitation; the per-target state machine is
// none -> pending -> accepted | denied | expired.
package invite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/presence"
	"clanhall/pkg/clanerrors"
)

// sweepInterval is how often the proactive expiry sweep runs. Lazy eviction
// on read already keeps answers correct; the sweep only caps memory.
const sweepInterval = 30 * time.Second

// MembershipCreator is the slice of the clan service that acceptance needs.
type MembershipCreator interface {
	AddPlayerToClan(ctx context.Context, playerID uuid.UUID, playerName string, clanID uuid.UUID) (models.AddPlayerResult, error)
}

// Tracker owns pending invitations. Runtime-only; nothing here persists.
type Tracker struct {
	pending  *xsync.MapOf[uuid.UUID, *models.Invitation]
	service  MembershipCreator
	presence *presence.Tracker
	logger   *slog.Logger
	ttl      time.Duration
}

// NewTracker constructs an invitation tracker. ttl <= 0 falls back to the
// default five minutes.
func NewTracker(service MembershipCreator, pres *presence.Tracker, logger *slog.Logger, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = models.DefaultInviteTTL
	}
	return &Tracker{
		pending:  xsync.NewMapOf[uuid.UUID, *models.Invitation](),
		service:  service,
		presence: pres,
		logger:   logger,
		ttl:      ttl,
	}
}

// Send records a new invitation for the target. Rejected while an unexpired
// invitation is still pending.
func (t *Tracker) Send(inviterID uuid.UUID, inviterName string, targetID uuid.UUID, clan *models.Clan, now time.Time) models.InviteResult {
	if clan == nil {
		return models.InviteClanNotFound
	}
	if existing := t.PendingFor(targetID, now); existing != nil {
		return models.InviteAlreadyPending
	}
	t.pending.Store(targetID, &models.Invitation{
		InviterID:   inviterID,
		InviterName: inviterName,
		TargetID:    targetID,
		Clan:        clan,
		CreatedAt:   now,
		TTL:         t.ttl,
	})
	if t.presence.NotifyPlayer(targetID, fmt.Sprintf("%s invited you to join [%s] %s", inviterName, clan.Tag, clan.Name)) {
		t.logger.Debug("invitation delivered", "target", targetID, "clan", clan.Tag)
	}
	return models.InviteSuccess
}

// PendingFor returns the target's live invitation. An expired one is treated
// as absent and evicted on the spot.
func (t *Tracker) PendingFor(targetID uuid.UUID, now time.Time) *models.Invitation {
	inv, ok := t.pending.Load(targetID)
	if !ok {
		return nil
	}
	if inv.Expired(now) {
		t.pending.Delete(targetID)
		return nil
	}
	return inv
}

// Accept resolves the target's pending invitation into a membership and
// removes it. The membership write is the atomic step; the invitation is only
// dropped once the service reports success.
func (t *Tracker) Accept(ctx context.Context, targetID uuid.UUID, targetName string, now time.Time) (models.AddPlayerResult, error) {
	inv := t.PendingFor(targetID, now)
	if inv == nil {
		return "", clanerrors.New(clanerrors.CodeNotFound, "no pending invitation")
	}
	result, err := t.service.AddPlayerToClan(ctx, targetID, targetName, inv.Clan.ID)
	if err != nil {
		return result, err
	}
	if result == models.AddPlayerSuccess {
		t.pending.Delete(targetID)
		t.presence.NotifyClanMembers(inv.Clan.ID, map[uuid.UUID]struct{}{targetID: {}},
			fmt.Sprintf("%s joined the clan", targetName))
	}
	return result, nil
}

// Deny removes the target's pending invitation and tells the inviter when
// they are online.
func (t *Tracker) Deny(targetID uuid.UUID, targetName string, now time.Time) bool {
	inv := t.PendingFor(targetID, now)
	if inv == nil {
		return false
	}
	t.pending.Delete(targetID)
	t.presence.NotifyPlayer(inv.InviterID, fmt.Sprintf("%s declined your clan invitation", targetName))
	return true
}

// PendingCount returns the number of tracked invitations, expired included.
func (t *Tracker) PendingCount() int { return t.pending.Size() }

// Sweep proactively evicts every expired invitation and returns how many
// were removed.
func (t *Tracker) Sweep(now time.Time) int {
	removed := 0
	t.pending.Range(func(targetID uuid.UUID, inv *models.Invitation) bool {
		if inv.Expired(now) {
			t.pending.Delete(targetID)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps periodically until the context is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := t.Sweep(now); removed > 0 {
				t.logger.Debug("expired invitations swept", "removed", removed)
			}
		}
	}
}

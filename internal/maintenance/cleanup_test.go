package maintenance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/presence"
	"clanhall/internal/clan/registry"
	"clanhall/internal/clan/store"
	"clanhall/internal/platform/config"
)

type recordingRemover struct {
	index   *registry.MembershipIndex
	removed []uuid.UUID
}

func (r *recordingRemover) RemovePlayerFromClan(_ context.Context, playerID uuid.UUID) (models.RemovePlayerResult, error) {
	r.removed = append(r.removed, playerID)
	r.index.Remove(playerID)
	return models.RemovePlayerSuccess, nil
}

type founderHandle struct {
	id       uuid.UUID
	messages []string
}

func (h *founderHandle) PlayerID() uuid.UUID { return h.id }
func (h *founderHandle) Name() string        { return "alice" }
func (h *founderHandle) Send(msg string) error {
	h.messages = append(h.messages, msg)
	return nil
}

func TestSweepRemovesInactiveMembers(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	idx := registry.NewMembershipIndex()
	pres := presence.NewTracker(idx)
	now := time.Now()
	stale := now.AddDate(0, 0, -120)

	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 0, now)
	require.NoError(t, err)
	founder := &models.Membership{PlayerID: uuid.New(), PlayerName: "alice", Clan: clan, Role: models.RoleFounder, JoinedAt: now, LastSeenAt: stale}
	require.NoError(t, gw.CreateClanWithFounder(ctx, clan, founder))
	idx.Insert(founder)

	idle := &models.Membership{PlayerID: uuid.New(), PlayerName: "sleeper", Clan: clan, Role: models.RoleMember, JoinedAt: now, LastSeenAt: stale}
	active := &models.Membership{PlayerID: uuid.New(), PlayerName: "grinder", Clan: clan, Role: models.RoleMember, JoinedAt: now, LastSeenAt: now}
	require.NoError(t, gw.SaveMembership(ctx, idle))
	require.NoError(t, gw.SaveMembership(ctx, active))
	idx.Insert(idle)
	idx.Insert(active)

	handle := &founderHandle{id: founder.PlayerID}
	pres.Connect(handle)

	remover := &recordingRemover{index: idx}
	cfg := config.CleanupConfig{Enabled: true, InactiveDays: 90, BatchSize: 50, NotifyFounders: true}
	cleanup := New(gw, remover, idx, pres, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	removed, err := cleanup.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []uuid.UUID{idle.PlayerID}, remover.removed)
	require.Len(t, handle.messages, 1)
	assert.Contains(t, handle.messages[0], "sleeper")
	assert.Contains(t, handle.messages[0], "90 days")
}

func TestSweepNeverRemovesFounders(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	idx := registry.NewMembershipIndex()
	now := time.Now()
	stale := now.AddDate(0, 0, -120)

	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 0, now)
	require.NoError(t, err)
	founder := &models.Membership{PlayerID: uuid.New(), PlayerName: "alice", Clan: clan, Role: models.RoleFounder, JoinedAt: now, LastSeenAt: stale}
	require.NoError(t, gw.CreateClanWithFounder(ctx, clan, founder))
	idx.Insert(founder)

	// A row whose cached role says founder is skipped even when the store
	// listed it, so cache wins over a divergent row.
	promoted := &models.Membership{PlayerID: uuid.New(), PlayerName: "bob", Clan: clan, Role: models.RoleMember, JoinedAt: now, LastSeenAt: stale}
	require.NoError(t, gw.SaveMembership(ctx, promoted))
	promoted.Role = models.RoleFounder
	idx.Insert(promoted)

	remover := &recordingRemover{index: idx}
	cfg := config.CleanupConfig{Enabled: true, InactiveDays: 90, BatchSize: 50}
	cleanup := New(gw, remover, idx, nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	removed, err := cleanup.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, remover.removed)
}

func TestSweepSkipsClanlessRecords(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	idx := registry.NewMembershipIndex()
	now := time.Now()

	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 0, now)
	require.NoError(t, err)
	founder := &models.Membership{PlayerID: uuid.New(), PlayerName: "alice", Clan: clan, Role: models.RoleFounder, JoinedAt: now, LastSeenAt: now}
	require.NoError(t, gw.CreateClanWithFounder(ctx, clan, founder))

	ghost := &models.Membership{PlayerID: uuid.New(), PlayerName: "ghost", Clan: clan, Role: models.RoleMember, JoinedAt: now, LastSeenAt: now.AddDate(0, 0, -120)}
	require.NoError(t, gw.SaveMembership(ctx, ghost))
	// The ghost never made it into the cache; the sweep must tolerate that.

	remover := &recordingRemover{index: idx}
	cfg := config.CleanupConfig{Enabled: true, InactiveDays: 90, BatchSize: 50}
	cleanup := New(gw, remover, idx, nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	removed, err := cleanup.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

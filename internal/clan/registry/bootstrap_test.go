package registry

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
	"clanhall/internal/clan/store"
)

type relationCollector struct {
	loaded []*models.Relation
}

func (c *relationCollector) Load(relations []*models.Relation) { c.loaded = relations }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestBootstrapTwoPass(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	now := time.Now()

	clanA, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 1000, now)
	require.NoError(t, err)
	clanB, err := models.NewClan(uuid.New(), "BEAR", "Iron Bears", "bob", 1000, now)
	require.NoError(t, err)
	founderA := &models.Membership{PlayerID: uuid.New(), PlayerName: "alice", Clan: clanA, Role: models.RoleFounder, JoinedAt: now, LastSeenAt: now}
	founderB := &models.Membership{PlayerID: uuid.New(), PlayerName: "bob", Clan: clanB, Role: models.RoleFounder, JoinedAt: now, LastSeenAt: now}
	require.NoError(t, gw.CreateClanWithFounder(ctx, clanA, founderA))
	require.NoError(t, gw.CreateClanWithFounder(ctx, clanB, founderB))

	member := &models.Membership{PlayerID: uuid.New(), PlayerName: "grunt", Clan: clanA, Role: models.RoleLeader, JoinedAt: now, LastSeenAt: now, Kills: 9, Deaths: 3}
	require.NoError(t, gw.SaveMembership(ctx, member))
	require.NoError(t, gw.SaveRelation(ctx, &models.Relation{ClanA: clanA.ID, ClanB: clanB.ID, Type: models.RelationRival, CreatedAt: now}))

	reg := NewRegistry()
	idx := NewMembershipIndex()
	sink := &relationCollector{}
	require.NoError(t, Bootstrap(ctx, gw, reg, idx, sink, discard()))

	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, 3, idx.Count())

	loaded := idx.Get(member.PlayerID)
	require.NotNil(t, loaded)
	assert.Same(t, reg.Get(clanA.ID), loaded.Clan, "membership resolves to the registry's clan instance")
	assert.Equal(t, models.RoleLeader, loaded.Role)
	assert.Equal(t, 9, loaded.Kills)

	require.Len(t, sink.loaded, 1)
	assert.Equal(t, models.RelationRival, sink.loaded[0].Type)
}

func TestBootstrapOrphanedMembership(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	now := time.Now()

	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 1000, now)
	require.NoError(t, err)
	ghost := &models.Membership{PlayerID: uuid.New(), PlayerName: "ghost", Clan: clan, Role: models.RoleLeader, JoinedAt: now, LastSeenAt: now, Kills: 4}
	// The membership row lands without its clan ever being persisted.
	require.NoError(t, gw.SaveMembership(ctx, ghost))

	reg := NewRegistry()
	idx := NewMembershipIndex()
	require.NoError(t, Bootstrap(ctx, gw, reg, idx, &relationCollector{}, discard()))

	loaded := idx.Get(ghost.PlayerID)
	require.NotNil(t, loaded, "orphaned rows load clanless instead of vanishing")
	assert.False(t, loaded.InClan())
	assert.Equal(t, models.RoleMember, loaded.Role)
	assert.Equal(t, 4, loaded.Kills)
}

func TestRegistryCaseInsensitiveLookups(t *testing.T) {
	reg := NewRegistry()
	clan, err := models.NewClan(uuid.New(), "WoLf", "Night Wolves", "alice", 0, time.Now())
	require.NoError(t, err)
	reg.Insert(clan)

	assert.Same(t, clan, reg.GetByTag("WOLF"))
	assert.Same(t, clan, reg.GetByTag("wolf"))
	assert.Same(t, clan, reg.GetByName("NIGHT wolves"))
	assert.True(t, reg.TagTaken(" wolf "))
	assert.True(t, reg.NameTaken("night WOLVES"))

	reg.Remove(clan.ID)
	assert.Nil(t, reg.GetByTag("wolf"))
	assert.False(t, reg.TagTaken("wolf"))
}

func TestMembershipIndexFounderOf(t *testing.T) {
	idx := NewMembershipIndex()
	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 0, time.Now())
	require.NoError(t, err)

	founder := &models.Membership{PlayerID: uuid.New(), PlayerName: "alice", Clan: clan, Role: models.RoleFounder}
	grunt := &models.Membership{PlayerID: uuid.New(), PlayerName: "grunt", Clan: clan, Role: models.RoleMember}
	idx.Insert(founder)
	idx.Insert(grunt)

	assert.Same(t, founder, idx.FounderOf(clan.ID))
	assert.Equal(t, 2, idx.CountOf(clan.ID))
	assert.Same(t, grunt, idx.FindByName("GRUNT"))
	assert.Nil(t, idx.FindByName("nobody"))
}

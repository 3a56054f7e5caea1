package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanhall/internal/clan/models"
	"clanhall/pkg/platform/sentinel"
)

func seedClan(t *testing.T, gw *Memory, tag, name string) (*models.Clan, *models.Membership) {
	t.Helper()
	now := time.Now()
	clan, err := models.NewClan(uuid.New(), tag, name, "founder-"+tag, 1000, now)
	require.NoError(t, err)
	founder := &models.Membership{
		PlayerID:   uuid.New(),
		PlayerName: "founder-" + tag,
		Clan:       clan,
		Role:       models.RoleFounder,
		JoinedAt:   now,
		LastSeenAt: now,
	}
	require.NoError(t, gw.CreateClanWithFounder(context.Background(), clan, founder))
	return clan, founder
}

func TestMemoryUniqueTagAndName(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	seedClan(t, gw, "WOLF", "Night Wolves")

	dupTag, err := models.NewClan(uuid.New(), "wolf", "Other Name", "bob", 0, time.Now())
	require.NoError(t, err)
	err = gw.CreateClanWithFounder(ctx, dupTag, &models.Membership{PlayerID: uuid.New(), PlayerName: "bob", Clan: dupTag, Role: models.RoleFounder})
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	dupName, err := models.NewClan(uuid.New(), "BEAR", "NIGHT WOLVES", "bob", 0, time.Now())
	require.NoError(t, err)
	err = gw.CreateClanWithFounder(ctx, dupName, &models.Membership{PlayerID: uuid.New(), PlayerName: "bob", Clan: dupName, Role: models.RoleFounder})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestMemoryStaleGuard(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, _ := seedClan(t, gw, "WOLF", "Night Wolves")

	entry := models.SanctionLogEntry{ClanID: clan.ID, Kind: models.LogPointsAdded, Delta: 10, NewPoints: 10}
	require.NoError(t, gw.AddPenaltyPointsAndLog(ctx, clan.ID, 0, 10, entry))

	// A caller holding the pre-update balance is stale now.
	err := gw.AddPenaltyPointsAndLog(ctx, clan.ID, 0, 5, entry)
	assert.ErrorIs(t, err, sentinel.ErrStale)
	assert.Len(t, gw.LogEntries(), 1, "stale write must not log")
}

func TestMemoryTransferFoundership(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, founder := seedClan(t, gw, "WOLF", "Night Wolves")

	leader := &models.Membership{PlayerID: uuid.New(), PlayerName: "officer", Clan: clan, Role: models.RoleLeader}
	require.NoError(t, gw.SaveMembership(ctx, leader))

	require.NoError(t, gw.TransferFoundership(ctx, clan.ID, founder.PlayerID, leader.PlayerID))

	records, err := gw.LoadMemberships(ctx)
	require.NoError(t, err)
	roles := map[uuid.UUID]string{}
	for _, rec := range records {
		roles[rec.PlayerID] = rec.Role
	}
	assert.Equal(t, "leader", roles[founder.PlayerID])
	assert.Equal(t, "founder", roles[leader.PlayerID])
}

func TestMemoryTransferFoundershipRejectsNonLeader(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, founder := seedClan(t, gw, "WOLF", "Night Wolves")

	member := &models.Membership{PlayerID: uuid.New(), PlayerName: "grunt", Clan: clan, Role: models.RoleMember}
	require.NoError(t, gw.SaveMembership(ctx, member))

	err := gw.TransferFoundership(ctx, clan.ID, founder.PlayerID, member.PlayerID)
	assert.ErrorIs(t, err, sentinel.ErrStale)
}

func TestMemoryDeleteClanDetachesAndClearsRelations(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, founder := seedClan(t, gw, "WOLF", "Night Wolves")
	other, _ := seedClan(t, gw, "BEAR", "Iron Bears")
	require.NoError(t, gw.SaveRelation(ctx, &models.Relation{ClanA: clan.ID, ClanB: other.ID, Type: models.RelationAlly}))

	require.NoError(t, gw.DeleteClan(ctx, clan.ID))

	records, err := gw.LoadMemberships(ctx)
	require.NoError(t, err)
	for _, rec := range records {
		if rec.PlayerID == founder.PlayerID {
			assert.False(t, rec.ClanID.Valid, "membership row survives clanless")
			assert.Equal(t, "member", rec.Role)
		}
	}
	relations, err := gw.LoadRelations(ctx)
	require.NoError(t, err)
	assert.Empty(t, relations)
}

func TestMemoryKDRLog(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, killer := seedClan(t, gw, "WOLF", "Night Wolves")
	victim := &models.Membership{PlayerID: uuid.New(), PlayerName: "prey", Clan: clan, Role: models.RoleMember}
	require.NoError(t, gw.SaveMembership(ctx, victim))

	entry := models.SanctionLogEntry{ClanID: clan.ID, Kind: models.LogKDRUpdated}
	require.NoError(t, gw.UpdateKDRAndLog(ctx, killer.PlayerID, victim.PlayerID, entry))

	records, err := gw.LoadMemberships(ctx)
	require.NoError(t, err)
	for _, rec := range records {
		switch rec.PlayerID {
		case killer.PlayerID:
			assert.Equal(t, 1, rec.Kills)
		case victim.PlayerID:
			assert.Equal(t, 1, rec.Deaths)
		}
	}
	assert.Len(t, gw.LogEntries(), 1)
}

func TestMemorySanctionLogPagination(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, _ := seedClan(t, gw, "WOLF", "Night Wolves")

	points := 0
	for i := 1; i <= 5; i++ {
		entry := models.SanctionLogEntry{
			ClanID:    clan.ID,
			Kind:      models.LogPointsAdded,
			Delta:     1,
			OldPoints: points,
			NewPoints: points + 1,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, gw.AddPenaltyPointsAndLog(ctx, clan.ID, points, 1, entry))
		points++
	}

	page, err := gw.SanctionLog(ctx, clan.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 5, page[0].NewPoints, "newest first")
	assert.Equal(t, 4, page[1].NewPoints)

	rest, err := gw.SanctionLog(ctx, clan.ID, 10, 4)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, 1, rest[0].NewPoints)
}

func TestMemoryInactiveMemberIDs(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, founder := seedClan(t, gw, "WOLF", "Night Wolves")

	stale := &models.Membership{
		PlayerID:   uuid.New(),
		PlayerName: "ghost",
		Clan:       clan,
		Role:       models.RoleMember,
		LastSeenAt: time.Now().AddDate(0, 0, -120),
	}
	require.NoError(t, gw.SaveMembership(ctx, stale))
	require.NoError(t, gw.TouchLastSeen(ctx, founder.PlayerID, time.Now()))

	ids, err := gw.InactiveMemberIDs(ctx, time.Now().AddDate(0, 0, -90), 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{stale.PlayerID}, ids)
}

func TestMemoryFailNext(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 0, time.Now())
	require.NoError(t, err)

	gw.FailNext()
	err = gw.CreateClanWithFounder(ctx, clan, &models.Membership{PlayerID: uuid.New(), Clan: clan, Role: models.RoleFounder})
	assert.ErrorIs(t, err, ErrInjected)

	// A single armed failure only fires once.
	assert.NoError(t, gw.CreateClanWithFounder(ctx, clan, &models.Membership{PlayerID: uuid.New(), PlayerName: "alice", Clan: clan, Role: models.RoleFounder}))
}

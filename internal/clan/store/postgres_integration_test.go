//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/store"
	"clanhall/pkg/platform/sentinel"
	"clanhall/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite

	pg  *containers.PostgresContainer
	gw  *store.Postgres
	now time.Time
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.gw = store.NewPostgres(s.pg.DB)
	s.Require().NoError(s.gw.EnsureSchema(context.Background()))
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresSuite) founded(tag, name string) (*models.Clan, *models.Membership) {
	clan, err := models.NewClan(uuid.New(), tag, name, "alice", 1000, s.now)
	s.Require().NoError(err)
	founder := &models.Membership{
		PlayerID:   uuid.New(),
		PlayerName: "alice",
		Clan:       clan,
		Role:       models.RoleFounder,
		JoinedAt:   s.now,
		LastSeenAt: s.now,
	}
	s.Require().NoError(s.gw.CreateClanWithFounder(context.Background(), clan, founder))
	return clan, founder
}

func (s *PostgresSuite) TestCreateAndLoadRoundTrip() {
	ctx := context.Background()
	clan, founder := s.founded("WOLF", "Night Wolves")

	member := &models.Membership{
		PlayerID:   uuid.New(),
		PlayerName: "bob",
		Clan:       clan,
		Role:       models.RoleLeader,
		JoinedAt:   s.now,
		LastSeenAt: s.now,
		Kills:      12,
		Deaths:     4,
	}
	s.Require().NoError(s.gw.SaveMembership(ctx, member))

	clans, err := s.gw.LoadClans(ctx)
	s.Require().NoError(err)
	s.Require().Len(clans, 1)
	s.Equal(clan.Tag, clans[0].Tag)
	s.Equal(1000, clans[0].RankingPoints)
	s.True(clan.CreatedAt.Equal(clans[0].CreatedAt))

	records, err := s.gw.LoadMemberships(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	byID := map[uuid.UUID]store.MembershipRecord{}
	for _, r := range records {
		byID[r.PlayerID] = r
	}
	s.Equal("founder", byID[founder.PlayerID].Role)
	s.Equal(12, byID[member.PlayerID].Kills)
	s.True(byID[member.PlayerID].ClanID.Valid)
	s.Equal(clan.ID, byID[member.PlayerID].ClanID.UUID)
}

func (s *PostgresSuite) TestDuplicateTagIsConflict() {
	clan, err := models.NewClan(uuid.New(), "wolf", "Other Wolves", "bob", 1000, s.now)
	s.Require().NoError(err)
	founder := &models.Membership{PlayerID: uuid.New(), PlayerName: "bob", Clan: clan, Role: models.RoleFounder, JoinedAt: s.now, LastSeenAt: s.now}

	s.founded("WOLF", "Night Wolves")
	err = s.gw.CreateClanWithFounder(context.Background(), clan, founder)
	s.Require().ErrorIs(err, sentinel.ErrConflict, "tag uniqueness is case-insensitive")
}

func (s *PostgresSuite) TestDeleteClanDetachesMembers() {
	ctx := context.Background()
	clan, founder := s.founded("WOLF", "Night Wolves")
	other, _ := s.founded("BEAR", "Iron Bears")
	s.Require().NoError(s.gw.SaveRelation(ctx, &models.Relation{ClanA: clan.ID, ClanB: other.ID, Type: models.RelationAlly, CreatedAt: s.now}))

	s.Require().NoError(s.gw.DeleteClan(ctx, clan.ID))

	records, err := s.gw.LoadMemberships(ctx)
	s.Require().NoError(err)
	for _, r := range records {
		if r.PlayerID == founder.PlayerID {
			s.False(r.ClanID.Valid, "members survive a disband, detached")
			s.Equal("member", r.Role)
		}
	}
	relations, err := s.gw.LoadRelations(ctx)
	s.Require().NoError(err)
	s.Empty(relations)

	s.Require().ErrorIs(s.gw.DeleteClan(ctx, clan.ID), sentinel.ErrNotFound)
}

func (s *PostgresSuite) TestPenaltyPointsStaleGuard() {
	ctx := context.Background()
	clan, _ := s.founded("WOLF", "Night Wolves")

	entry := models.SanctionLogEntry{ClanID: clan.ID, Kind: models.LogPointsAdded, Delta: 5, OldPoints: 0, NewPoints: 5, CreatedAt: s.now}
	s.Require().NoError(s.gw.AddPenaltyPointsAndLog(ctx, clan.ID, 0, 5, entry))

	// A second write still claiming balance 0 must fail and write no log row.
	err := s.gw.AddPenaltyPointsAndLog(ctx, clan.ID, 0, 5, entry)
	s.Require().ErrorIs(err, sentinel.ErrStale)

	entries, err := s.gw.SanctionLog(ctx, clan.ID, 10, 0)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *PostgresSuite) TestSanctionLogNewestFirst() {
	ctx := context.Background()
	clan, _ := s.founded("WOLF", "Night Wolves")

	old := 0
	for i, details := range []string{"first", "second", "third"} {
		entry := models.SanctionLogEntry{ClanID: clan.ID, Kind: models.LogPointsAdded, Delta: 1, OldPoints: old, NewPoints: old + 1, Details: details, CreatedAt: s.now.Add(time.Duration(i) * time.Second)}
		s.Require().NoError(s.gw.AddPenaltyPointsAndLog(ctx, clan.ID, old, 1, entry))
		old++
	}

	entries, err := s.gw.SanctionLog(ctx, clan.ID, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("third", entries[0].Details)
	s.Equal("second", entries[1].Details)

	entries, err = s.gw.SanctionLog(ctx, clan.ID, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("first", entries[0].Details)
}

func (s *PostgresSuite) TestTransferFoundership() {
	ctx := context.Background()
	clan, founder := s.founded("WOLF", "Night Wolves")
	leader := &models.Membership{PlayerID: uuid.New(), PlayerName: "bob", Clan: clan, Role: models.RoleLeader, JoinedAt: s.now, LastSeenAt: s.now}
	s.Require().NoError(s.gw.SaveMembership(ctx, leader))

	s.Require().NoError(s.gw.TransferFoundership(ctx, clan.ID, founder.PlayerID, leader.PlayerID))

	records, err := s.gw.LoadMemberships(ctx)
	s.Require().NoError(err)
	roles := map[uuid.UUID]string{}
	for _, r := range records {
		roles[r.PlayerID] = r.Role
	}
	s.Equal("leader", roles[founder.PlayerID])
	s.Equal("founder", roles[leader.PlayerID])

	clans, err := s.gw.LoadClans(ctx)
	s.Require().NoError(err)
	s.Equal("bob", clans[0].FounderName)

	// A repeat transfer finds no founder row for the old id and aborts whole.
	s.Require().ErrorIs(s.gw.TransferFoundership(ctx, clan.ID, founder.PlayerID, leader.PlayerID), sentinel.ErrStale)
}

func (s *PostgresSuite) TestKDRUpdate() {
	ctx := context.Background()
	clan, founder := s.founded("WOLF", "Night Wolves")
	victim := &models.Membership{PlayerID: uuid.New(), PlayerName: "bob", Clan: clan, Role: models.RoleMember, JoinedAt: s.now, LastSeenAt: s.now}
	s.Require().NoError(s.gw.SaveMembership(ctx, victim))

	entry := models.SanctionLogEntry{ClanID: clan.ID, Kind: models.LogKDRUpdated, TargetID: founder.PlayerID.String(), CreatedAt: s.now}
	s.Require().NoError(s.gw.UpdateKDRAndLog(ctx, founder.PlayerID, victim.PlayerID, entry))

	records, err := s.gw.LoadMemberships(ctx)
	s.Require().NoError(err)
	for _, r := range records {
		switch r.PlayerID {
		case founder.PlayerID:
			s.Equal(1, r.Kills)
			s.Equal(0, r.Deaths)
		case victim.PlayerID:
			s.Equal(0, r.Kills)
			s.Equal(1, r.Deaths)
		}
	}
}

func (s *PostgresSuite) TestInactiveMemberIDs() {
	ctx := context.Background()
	clan, _ := s.founded("WOLF", "Night Wolves")
	stale := s.now.AddDate(0, 0, -120)

	idle := &models.Membership{PlayerID: uuid.New(), PlayerName: "sleeper", Clan: clan, Role: models.RoleMember, JoinedAt: s.now, LastSeenAt: stale}
	active := &models.Membership{PlayerID: uuid.New(), PlayerName: "grinder", Clan: clan, Role: models.RoleMember, JoinedAt: s.now, LastSeenAt: s.now}
	s.Require().NoError(s.gw.SaveMembership(ctx, idle))
	s.Require().NoError(s.gw.SaveMembership(ctx, active))

	ids, err := s.gw.InactiveMemberIDs(ctx, s.now.AddDate(0, 0, -90), 50)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{idle.PlayerID}, ids)
}

//go:build integration

package ranking_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/registry"
	platformredis "clanhall/internal/platform/redis"
	"clanhall/internal/ranking"
	"clanhall/pkg/platform/sentinel"
	"clanhall/pkg/testutil/containers"
)

type LeaderboardSuite struct {
	suite.Suite

	client   *platformredis.Client
	registry *registry.Registry
	board    *ranking.Leaderboard
}

func TestLeaderboardSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(LeaderboardSuite))
}

func (s *LeaderboardSuite) SetupSuite() {
	rc := containers.NewRedisContainer(s.T())
	s.client = &platformredis.Client{Client: rc.Client}
}

func (s *LeaderboardSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
	s.registry = registry.NewRegistry()
	s.board = ranking.New(s.client, s.registry, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *LeaderboardSuite) addClan(tag, name string, points int) *models.Clan {
	clan, err := models.NewClan(uuid.New(), tag, name, "alice", points, time.Now())
	s.Require().NoError(err)
	s.registry.Insert(clan)
	return clan
}

func (s *LeaderboardSuite) TestRebuildAndTop() {
	ctx := context.Background()
	wolf := s.addClan("WOLF", "Night Wolves", 1200)
	bear := s.addClan("BEAR", "Iron Bears", 1500)
	s.addClan("CROW", "Carrion Crows", 900)

	s.Require().NoError(s.board.Rebuild(ctx))

	top, err := s.board.Top(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(bear.ID, top[0].ClanID)
	s.Equal(1, top[0].Rank)
	s.Equal(1500, top[0].Points)
	s.Equal(wolf.ID, top[1].ClanID)
	s.Equal(2, top[1].Rank)
}

func (s *LeaderboardSuite) TestUpdateScoreReorders() {
	ctx := context.Background()
	wolf := s.addClan("WOLF", "Night Wolves", 1200)
	bear := s.addClan("BEAR", "Iron Bears", 1500)
	s.Require().NoError(s.board.Rebuild(ctx))

	s.Require().NoError(s.board.UpdateScore(ctx, wolf.ID, 1600))

	rank, points, err := s.board.RankOf(ctx, wolf.ID)
	s.Require().NoError(err)
	s.Equal(1, rank)
	s.Equal(1600, points)

	rank, _, err = s.board.RankOf(ctx, bear.ID)
	s.Require().NoError(err)
	s.Equal(2, rank)
}

func (s *LeaderboardSuite) TestRemove() {
	ctx := context.Background()
	wolf := s.addClan("WOLF", "Night Wolves", 1200)
	s.Require().NoError(s.board.Rebuild(ctx))

	s.Require().NoError(s.board.Remove(ctx, wolf.ID))

	_, _, err := s.board.RankOf(ctx, wolf.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *LeaderboardSuite) TestTopPrunesVanishedClans() {
	ctx := context.Background()
	wolf := s.addClan("WOLF", "Night Wolves", 1200)
	bear := s.addClan("BEAR", "Iron Bears", 1500)
	s.Require().NoError(s.board.Rebuild(ctx))

	// Disband drops the clan from the registry; the board hears about it
	// lazily on the next read.
	s.registry.Remove(bear.ID)

	top, err := s.board.Top(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(wolf.ID, top[0].ClanID)

	_, _, err = s.board.RankOf(ctx, bear.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "vanished entries are pruned on read")
}

// Package ranking keeps the clan leaderboard in a Redis sorted set. Postgres
// stays the authority for ranking points; the sorted set is a disposable read
// model rebuilt from the registry on startup.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"clanhall/internal/clan/registry"
	"clanhall/internal/platform/redis"
	"clanhall/pkg/platform/sentinel"
)

const leaderboardKey = "clanhall:ranking"

// Entry is one leaderboard row.
type Entry struct {
	Rank   int       `json:"rank"`
	ClanID uuid.UUID `json:"clan_id"`
	Tag    string    `json:"tag"`
	Name   string    `json:"name"`
	Points int       `json:"points"`
}

// Leaderboard mirrors clan ranking points into a Redis sorted set and serves
// ranked reads from it.
type Leaderboard struct {
	client   *redis.Client
	registry *registry.Registry
	logger   *slog.Logger
}

func New(client *redis.Client, reg *registry.Registry, logger *slog.Logger) *Leaderboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Leaderboard{client: client, registry: reg, logger: logger}
}

// Rebuild replaces the sorted set with the current registry contents. Called
// once after bootstrap so restarts never serve a stale board.
func (l *Leaderboard) Rebuild(ctx context.Context) error {
	clans := l.registry.All()
	members := make([]goredis.Z, 0, len(clans))
	for _, clan := range clans {
		members = append(members, goredis.Z{Score: float64(clan.RankingPoints), Member: clan.ID.String()})
	}

	pipe := l.client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rebuild leaderboard: %w", err)
	}
	l.logger.Info("leaderboard rebuilt", "clans", len(members))
	return nil
}

// UpdateScore sets the clan's score on the board.
func (l *Leaderboard) UpdateScore(ctx context.Context, clanID uuid.UUID, points int) error {
	err := l.client.ZAdd(ctx, leaderboardKey, goredis.Z{
		Score:  float64(points),
		Member: clanID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("update leaderboard score: %w", err)
	}
	return nil
}

// Remove drops the clan from the board.
func (l *Leaderboard) Remove(ctx context.Context, clanID uuid.UUID) error {
	if err := l.client.ZRem(ctx, leaderboardKey, clanID.String()).Err(); err != nil {
		return fmt.Errorf("remove from leaderboard: %w", err)
	}
	return nil
}

// Top returns the n highest ranked clans. Entries whose clan has vanished
// from the registry since the last write are skipped and lazily pruned.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > 100 {
		n = 25
	}
	rows, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.Member.(string))
		if err != nil {
			continue
		}
		clan := l.registry.Get(id)
		if clan == nil {
			l.client.ZRem(ctx, leaderboardKey, row.Member)
			continue
		}
		entries = append(entries, Entry{
			Rank:   len(entries) + 1,
			ClanID: clan.ID,
			Tag:    clan.Tag,
			Name:   clan.Name,
			Points: int(row.Score),
		})
	}
	return entries, nil
}

// RankOf returns the clan's 1-based rank and current score.
func (l *Leaderboard) RankOf(ctx context.Context, clanID uuid.UUID) (int, int, error) {
	member := clanID.String()
	rank, err := l.client.ZRevRank(ctx, leaderboardKey, member).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, 0, sentinel.ErrNotFound
		}
		return 0, 0, fmt.Errorf("read leaderboard rank: %w", err)
	}
	score, err := l.client.ZScore(ctx, leaderboardKey, member).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("read leaderboard score: %w", err)
	}
	return int(rank) + 1, int(score), nil
}


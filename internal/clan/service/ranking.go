package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clanhall/pkg/clanerrors"
)

// AdjustRankingPoints moves a clan's ranking score by delta, clamped at zero,
// and mirrors the new score to the leaderboard sink.
func (s *Service) AdjustRankingPoints(ctx context.Context, clanID uuid.UUID, delta int) (int, error) {
	ctx, span := s.tracer.Start(ctx, "AdjustRankingPoints")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("adjust_ranking", start)

	clan := s.registry.Get(clanID)
	if clan == nil {
		return 0, clanerrors.New(clanerrors.CodeNotFound, "clan not found")
	}

	next := clan.RankingPoints + delta
	if next < 0 {
		next = 0
	}
	if err := s.gw.UpdateRankingPoints(ctx, clanID, next); err != nil {
		s.persistenceFailed()
		s.logger.Error("ranking write failed", "clan", clanID, "delta", delta, "err", err)
		return clan.RankingPoints, clanerrors.Wrap(err, clanerrors.CodePersistence, "adjust ranking")
	}

	clan.RankingPoints = next
	if s.ranking != nil {
		if err := s.ranking.UpdateScore(ctx, clanID, next); err != nil {
			s.logger.Warn("leaderboard update failed", "clan", clanID, "err", err)
		}
	}
	return next, nil
}

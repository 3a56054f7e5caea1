package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clanhall/internal/clan/models"
	"clanhall/pkg/clanerrors"
	"clanhall/pkg/requestcontext"
)

// RecordKill credits a kill to killerID and a death to victimID. The cached
// counters are incremented before the persistence call and explicitly
// reversed if it fails, so a gateway outage tells the caller the truth
// instead of leaving a phantom stat. Both memberships may belong to
// different clans or to none.
func (s *Service) RecordKill(ctx context.Context, killerID, victimID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "RecordKill")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("record_kill", start)

	killer := s.index.Get(killerID)
	victim := s.index.Get(victimID)
	if killer == nil && victim == nil {
		return clanerrors.New(clanerrors.CodeNotFound, "neither combatant has a membership")
	}

	now := requestcontext.Now(ctx)
	if killer != nil {
		killer.Kills++
		killer.LastSeenAt = now
	}
	if victim != nil {
		victim.Deaths++
		victim.LastSeenAt = now
	}

	entry := models.SanctionLogEntry{
		Kind:      models.LogKDRUpdated,
		CreatedAt: now,
	}
	if killer != nil && killer.InClan() {
		entry.ClanID = killer.Clan.ID
		entry.TargetID = killerID.String()
		entry.TargetName = killer.PlayerName
	}
	if err := s.gw.UpdateKDRAndLog(ctx, killerID, victimID, entry); err != nil {
		if killer != nil {
			killer.Kills--
		}
		if victim != nil {
			victim.Deaths--
		}
		s.persistenceFailed()
		s.logger.Error("kdr write failed", "killer", killerID, "victim", victimID, "err", err)
		return clanerrors.Wrap(err, clanerrors.CodePersistence, "record kill")
	}
	return nil
}

// TouchLastSeen refreshes the activity timestamp for playerID. Called on
// connect so the inactivity sweep has fresh data.
func (s *Service) TouchLastSeen(ctx context.Context, playerID uuid.UUID) error {
	m := s.index.Get(playerID)
	if m == nil {
		return nil
	}
	now := requestcontext.Now(ctx)
	if err := s.gw.TouchLastSeen(ctx, playerID, now); err != nil {
		s.persistenceFailed()
		return clanerrors.Wrap(err, clanerrors.CodePersistence, "touch last seen")
	}
	m.LastSeenAt = now
	return nil
}

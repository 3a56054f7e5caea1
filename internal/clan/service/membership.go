package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"clanhall/internal/clan/events"
	"clanhall/internal/clan/models"
	"clanhall/pkg/clanerrors"
	"clanhall/pkg/platform/sentinel"
	"clanhall/pkg/requestcontext"
)

// CreateClan creates a clan with playerID as its founder. The founder
// membership is persisted atomically with the clan row.
func (s *Service) CreateClan(ctx context.Context, playerID uuid.UUID, playerName, tag, name string) (models.CreateClanResult, *models.Clan, error) {
	ctx, span := s.tracer.Start(ctx, "CreateClan")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("create_clan", start)

	if existing := s.index.Get(playerID); existing != nil && existing.InClan() {
		return models.CreateClanAlreadyInClan, nil, nil
	}
	if s.registry.TagTaken(tag) {
		return models.CreateClanTagTaken, nil, nil
	}
	if s.registry.NameTaken(name) {
		return models.CreateClanNameTaken, nil, nil
	}

	now := requestcontext.Now(ctx)
	clan, err := models.NewClan(uuid.New(), tag, name, playerName, s.initialRanking, now)
	if err != nil {
		return models.CreateClanInvalid, nil, nil
	}
	founder := &models.Membership{
		PlayerID:   playerID,
		PlayerName: playerName,
		Clan:       clan,
		Role:       models.RoleFounder,
		JoinedAt:   now,
		LastSeenAt: now,
	}

	if err := s.gw.CreateClanWithFounder(ctx, clan, founder); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// The cache missed a row another process wrote; report it as the
			// duplicate it is rather than a fault.
			return models.CreateClanTagTaken, nil, nil
		}
		s.persistenceFailed()
		s.logger.Error("create clan write failed",
			"actor", playerID, "tag", tag, "name", name, "err", err)
		return models.CreateClanFailed, nil, clanerrors.Wrap(err, clanerrors.CodePersistence, "create clan")
	}

	s.registry.Insert(clan)
	s.index.Insert(founder)
	if s.ranking != nil {
		if err := s.ranking.UpdateScore(ctx, clan.ID, clan.RankingPoints); err != nil {
			s.logger.Warn("leaderboard update failed", "clan", clan.ID, "err", err)
		}
	}
	span.SetAttributes(attribute.String("clan.tag", clan.Tag))
	if s.metrics != nil {
		s.metrics.ClansCreated.Inc()
	}
	s.emit(ctx, events.Event{
		Kind: events.KindClanCreated, ClanID: clan.ID, ClanTag: clan.Tag,
		PlayerID: playerID.String(), Timestamp: now,
	})
	s.logger.Info("clan created", "clan", clan.ID, "tag", clan.Tag, "founder", playerID)
	return models.CreateClanSuccess, clan, nil
}

// AddPlayerToClan creates a membership for playerID in the given clan. Used
// directly and by invitation acceptance.
func (s *Service) AddPlayerToClan(ctx context.Context, playerID uuid.UUID, playerName string, clanID uuid.UUID) (models.AddPlayerResult, error) {
	ctx, span := s.tracer.Start(ctx, "AddPlayerToClan")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("add_player", start)

	clan := s.registry.Get(clanID)
	if clan == nil {
		return models.AddPlayerClanNotFound, nil
	}
	if existing := s.index.Get(playerID); existing != nil && existing.InClan() {
		return models.AddPlayerAlreadyInClan, nil
	}

	now := requestcontext.Now(ctx)
	m := &models.Membership{
		PlayerID:   playerID,
		PlayerName: playerName,
		Clan:       clan,
		Role:       models.RoleMember,
		JoinedAt:   now,
		LastSeenAt: now,
	}
	if err := s.gw.SaveMembership(ctx, m); err != nil {
		s.persistenceFailed()
		s.logger.Error("add player write failed", "player", playerID, "clan", clanID, "err", err)
		return models.AddPlayerFailed, clanerrors.Wrap(err, clanerrors.CodePersistence, "add player")
	}

	s.index.Insert(m)
	if s.metrics != nil {
		s.metrics.MembersJoined.Inc()
	}
	s.emit(ctx, events.Event{
		Kind: events.KindMemberJoined, ClanID: clan.ID, ClanTag: clan.Tag,
		PlayerID: playerID.String(), Timestamp: now,
	})
	return models.AddPlayerSuccess, nil
}

// RemovePlayerFromClan handles a voluntary leave. The persisted row keeps the
// player's stats but loses its clan reference; the cache entry is evicted so
// the index only tracks the active population. A founder must transfer
// foundership (or disband) before leaving.
func (s *Service) RemovePlayerFromClan(ctx context.Context, playerID uuid.UUID) (models.RemovePlayerResult, error) {
	ctx, span := s.tracer.Start(ctx, "RemovePlayerFromClan")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("remove_player", start)

	m := s.index.Get(playerID)
	if m == nil {
		return models.RemovePlayerNotFound, nil
	}
	if !m.InClan() {
		return models.RemovePlayerNotInClan, nil
	}
	if m.Role == models.RoleFounder {
		return models.RemovePlayerFounderMustTransfer, nil
	}

	clan := m.Clan
	detached := *m
	detached.Detach()
	if err := s.gw.SaveMembership(ctx, &detached); err != nil {
		s.persistenceFailed()
		s.logger.Error("remove player write failed", "player", playerID, "clan", clan.ID, "err", err)
		return models.RemovePlayerFailed, clanerrors.Wrap(err, clanerrors.CodePersistence, "remove player")
	}

	m.Detach()
	s.index.Remove(playerID)
	if s.metrics != nil {
		s.metrics.MembersRemoved.WithLabelValues("leave").Inc()
	}
	s.emit(ctx, events.Event{
		Kind: events.KindMemberLeft, ClanID: clan.ID, ClanTag: clan.Tag,
		PlayerID: playerID.String(), Timestamp: requestcontext.Now(ctx),
	})
	s.presence.NotifyClanMembers(clan.ID, nil, fmt.Sprintf("%s left the clan", m.PlayerName))
	return models.RemovePlayerSuccess, nil
}

// KickPlayerFromClan removes targetID on the authority of actorID. Leaders
// kick members; the founder kicks members and leaders; the founder can never
// be kicked.
func (s *Service) KickPlayerFromClan(ctx context.Context, actorID, targetID uuid.UUID) (models.KickResult, error) {
	ctx, span := s.tracer.Start(ctx, "KickPlayerFromClan")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("kick_player", start)

	actor := s.index.Get(actorID)
	target := s.index.Get(targetID)
	if actor == nil || target == nil || !target.InClan() {
		return models.KickPlayerNotFound, nil
	}
	if !actor.SameClanAs(target) {
		return models.KickNotInSameClan, nil
	}
	if actorID == targetID {
		return models.KickCannotKickSelf, nil
	}
	if target.Role >= actor.Role {
		// Covers the founder (never kickable) and leader-on-leader kicks.
		return models.KickCannotKickLeader, nil
	}

	clan := target.Clan
	detached := *target
	detached.Detach()
	if err := s.gw.SaveMembership(ctx, &detached); err != nil {
		s.persistenceFailed()
		s.logger.Error("kick write failed",
			"actor", actorID, "target", targetID, "clan", clan.ID, "err", err)
		return models.KickFailed, clanerrors.Wrap(err, clanerrors.CodePersistence, "kick player")
	}

	target.Detach()
	s.index.Remove(targetID)
	if s.metrics != nil {
		s.metrics.MembersRemoved.WithLabelValues("kick").Inc()
	}
	s.emit(ctx, events.Event{
		Kind: events.KindMemberKicked, ClanID: clan.ID, ClanTag: clan.Tag,
		PlayerID: targetID.String(), ActorID: actorID.String(), Timestamp: requestcontext.Now(ctx),
	})
	s.presence.NotifyPlayer(targetID, fmt.Sprintf("You were kicked from [%s] %s", clan.Tag, clan.Name))
	s.presence.NotifyClanMembers(clan.ID, map[uuid.UUID]struct{}{targetID: {}},
		fmt.Sprintf("%s was kicked from the clan", target.PlayerName))
	return models.KickSuccess, nil
}

// PromotePlayer raises targetID from member to leader. Only the founder may
// promote.
func (s *Service) PromotePlayer(ctx context.Context, actorID, targetID uuid.UUID) (models.PromoteResult, error) {
	ctx, span := s.tracer.Start(ctx, "PromotePlayer")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("promote_player", start)

	actor := s.index.Get(actorID)
	target := s.index.Get(targetID)
	if actor == nil || target == nil || !target.InClan() {
		return models.PromotePlayerNotFound, nil
	}
	if !actor.SameClanAs(target) || actor.Role != models.RoleFounder {
		return models.PromoteNotInSameClan, nil
	}
	switch target.Role {
	case models.RoleLeader:
		return models.PromoteAlreadyOfficer, nil
	case models.RoleFounder:
		return models.PromoteAlreadyLeader, nil
	}

	if err := s.gw.UpdateMembershipRole(ctx, targetID, models.RoleLeader); err != nil {
		s.persistenceFailed()
		s.logger.Error("promote write failed", "actor", actorID, "target", targetID, "err", err)
		return models.PromoteFailed, clanerrors.Wrap(err, clanerrors.CodePersistence, "promote player")
	}

	target.Role = models.RoleLeader
	s.emit(ctx, events.Event{
		Kind: events.KindRoleChanged, ClanID: target.Clan.ID, ClanTag: target.Clan.Tag,
		PlayerID: targetID.String(), ActorID: actorID.String(),
		Details: "promoted to leader", Timestamp: requestcontext.Now(ctx),
	})
	s.presence.NotifyPlayer(targetID, "You were promoted to leader")
	return models.PromoteSuccess, nil
}

// DemotePlayer lowers targetID from leader to member. Only the founder may
// demote; the founder itself can never be demoted.
func (s *Service) DemotePlayer(ctx context.Context, actorID, targetID uuid.UUID) (models.DemoteResult, error) {
	ctx, span := s.tracer.Start(ctx, "DemotePlayer")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("demote_player", start)

	actor := s.index.Get(actorID)
	target := s.index.Get(targetID)
	if actor == nil || target == nil || !target.InClan() {
		return models.DemotePlayerNotFound, nil
	}
	if !actor.SameClanAs(target) || actor.Role != models.RoleFounder {
		return models.DemoteNotInSameClan, nil
	}
	switch target.Role {
	case models.RoleFounder:
		return models.DemoteCannotDemoteLeader, nil
	case models.RoleMember:
		return models.DemoteNotAnOfficer, nil
	}

	if err := s.gw.UpdateMembershipRole(ctx, targetID, models.RoleMember); err != nil {
		s.persistenceFailed()
		s.logger.Error("demote write failed", "actor", actorID, "target", targetID, "err", err)
		return models.DemoteFailed, clanerrors.Wrap(err, clanerrors.CodePersistence, "demote player")
	}

	target.Role = models.RoleMember
	s.emit(ctx, events.Event{
		Kind: events.KindRoleChanged, ClanID: target.Clan.ID, ClanTag: target.Clan.Tag,
		PlayerID: targetID.String(), ActorID: actorID.String(),
		Details: "demoted to member", Timestamp: requestcontext.Now(ctx),
	})
	return models.DemoteSuccess, nil
}

// SetFounder transfers foundership from actorID to targetID, who must
// currently be a leader of the same clan. Persisted as one atomic gateway
// operation so exactly one founder exists at every observable point.
func (s *Service) SetFounder(ctx context.Context, actorID, targetID uuid.UUID) (models.SetFounderResult, error) {
	ctx, span := s.tracer.Start(ctx, "SetFounder")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("set_founder", start)

	actor := s.index.Get(actorID)
	target := s.index.Get(targetID)
	if actor == nil || target == nil || !target.InClan() {
		return models.SetFounderPlayerNotFound, nil
	}
	if !actor.SameClanAs(target) || actor.Role != models.RoleFounder {
		return models.SetFounderNotInSameClan, nil
	}
	if target.Role == models.RoleFounder {
		return models.SetFounderAlreadyFounder, nil
	}
	if target.Role != models.RoleLeader {
		return models.SetFounderNotLeader, nil
	}

	clan := actor.Clan
	if err := s.gw.TransferFoundership(ctx, clan.ID, actorID, targetID); err != nil {
		s.persistenceFailed()
		s.logger.Error("foundership transfer failed",
			"actor", actorID, "target", targetID, "clan", clan.ID, "err", err)
		return models.SetFounderFailed, clanerrors.Wrap(err, clanerrors.CodePersistence, "set founder")
	}

	// Apply both role changes before anything can observe the cache: within
	// the confined writer this block is atomic to all readers that matter.
	actor.Role = models.RoleLeader
	target.Role = models.RoleFounder
	clan.FounderName = target.PlayerName
	s.emit(ctx, events.Event{
		Kind: events.KindRoleChanged, ClanID: clan.ID, ClanTag: clan.Tag,
		PlayerID: targetID.String(), ActorID: actorID.String(),
		Details: "foundership transferred", Timestamp: requestcontext.Now(ctx),
	})
	s.presence.NotifyClanMembers(clan.ID, nil,
		fmt.Sprintf("%s is the new founder of [%s]", target.PlayerName, clan.Tag))
	return models.SetFounderSuccess, nil
}

// DisbandClan deletes the clan, detaches every membership, and evicts all
// cached state. Only the founder may disband.
func (s *Service) DisbandClan(ctx context.Context, actorID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DisbandClan")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("disband_clan", start)

	actor := s.index.Get(actorID)
	if actor == nil || !actor.InClan() {
		return clanerrors.New(clanerrors.CodeNotFound, "player is not in a clan")
	}
	if actor.Role != models.RoleFounder {
		return clanerrors.New(clanerrors.CodeValidation, "only the founder may disband the clan")
	}

	clan := actor.Clan
	members := s.index.MembersOf(clan.ID)
	if err := s.gw.DeleteClan(ctx, clan.ID); err != nil {
		s.persistenceFailed()
		s.logger.Error("disband write failed", "actor", actorID, "clan", clan.ID, "err", err)
		return clanerrors.Wrap(err, clanerrors.CodePersistence, "disband clan")
	}

	s.presence.NotifyClanMembers(clan.ID, nil, fmt.Sprintf("[%s] %s was disbanded", clan.Tag, clan.Name))
	for _, m := range members {
		m.Detach()
		s.index.Remove(m.PlayerID)
	}
	s.registry.Remove(clan.ID)
	s.graph.DropClan(clan.ID)
	if s.ranking != nil {
		if err := s.ranking.Remove(ctx, clan.ID); err != nil {
			s.logger.Warn("leaderboard remove failed", "clan", clan.ID, "err", err)
		}
	}
	if s.metrics != nil {
		s.metrics.ClansDisbanded.Inc()
		s.metrics.MembersRemoved.WithLabelValues("disband").Add(float64(len(members)))
	}
	s.emit(ctx, events.Event{
		Kind: events.KindClanDisbanded, ClanID: clan.ID, ClanTag: clan.Tag,
		ActorID: actorID.String(), Timestamp: requestcontext.Now(ctx),
	})
	s.logger.Info("clan disbanded", "clan", clan.ID, "tag", clan.Tag, "members", len(members))
	return nil
}

func (s *Service) observeMutation(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(op, start)
	}
}

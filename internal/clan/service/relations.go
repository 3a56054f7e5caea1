package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clanhall/internal/clan/models"
	"clanhall/pkg/clanerrors"
	"clanhall/pkg/requestcontext"
)

// SetRelation declares the actor's clan ally or rival of the clan with the
// given tag. The relation is symmetric and requires officer rank; declaring
// over an existing relation of the other type overwrites it.
func (s *Service) SetRelation(ctx context.Context, actorID uuid.UUID, targetTag string, t models.RelationType) error {
	ctx, span := s.tracer.Start(ctx, "SetRelation")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("set_relation", start)

	actor, err := s.officer(actorID)
	if err != nil {
		return err
	}
	target := s.registry.GetByTag(targetTag)
	if target == nil {
		return clanerrors.Newf(clanerrors.CodeNotFound, "no clan with tag %q", targetTag)
	}
	return s.graph.Set(ctx, actor.Clan.ID, target.ID, t, requestcontext.Now(ctx))
}

// RemoveRelation clears any relation between the actor's clan and the clan
// with the given tag.
func (s *Service) RemoveRelation(ctx context.Context, actorID uuid.UUID, targetTag string) error {
	ctx, span := s.tracer.Start(ctx, "RemoveRelation")
	defer span.End()
	start := time.Now()
	defer s.observeMutation("remove_relation", start)

	actor, err := s.officer(actorID)
	if err != nil {
		return err
	}
	target := s.registry.GetByTag(targetTag)
	if target == nil {
		return clanerrors.Newf(clanerrors.CodeNotFound, "no clan with tag %q", targetTag)
	}
	return s.graph.Remove(ctx, actor.Clan.ID, target.ID)
}

// officer returns the actor's membership when it carries leader rank or
// better.
func (s *Service) officer(actorID uuid.UUID) (*models.Membership, error) {
	m := s.index.Get(actorID)
	if m == nil || !m.InClan() {
		return nil, clanerrors.New(clanerrors.CodeNotFound, "player is not in a clan")
	}
	if m.Role < models.RoleLeader {
		return nil, clanerrors.New(clanerrors.CodeValidation, "officer rank required")
	}
	return m, nil
}

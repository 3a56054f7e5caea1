// Package handler wires the clan HTTP surface to the clan service, the
// invitation tracker, and the sanction engine.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/registry"
	"clanhall/internal/clan/relation"
	"clanhall/internal/identity"
	"clanhall/internal/ranking"
	"clanhall/pkg/clanerrors"
	"clanhall/pkg/platform/httputil"
	"clanhall/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/invites-mocks.go -package=mocks Invites

// Service defines the clan mutation operations the handler depends on.
type Service interface {
	CreateClan(ctx context.Context, playerID uuid.UUID, playerName, tag, name string) (models.CreateClanResult, *models.Clan, error)
	RemovePlayerFromClan(ctx context.Context, playerID uuid.UUID) (models.RemovePlayerResult, error)
	KickPlayerFromClan(ctx context.Context, actorID, targetID uuid.UUID) (models.KickResult, error)
	PromotePlayer(ctx context.Context, actorID, targetID uuid.UUID) (models.PromoteResult, error)
	DemotePlayer(ctx context.Context, actorID, targetID uuid.UUID) (models.DemoteResult, error)
	SetFounder(ctx context.Context, actorID, targetID uuid.UUID) (models.SetFounderResult, error)
	DisbandClan(ctx context.Context, actorID uuid.UUID) error
	RecordKill(ctx context.Context, killerID, victimID uuid.UUID) error
	SetRelation(ctx context.Context, actorID uuid.UUID, targetTag string, t models.RelationType) error
	RemoveRelation(ctx context.Context, actorID uuid.UUID, targetTag string) error
}

// Invites defines the invitation operations the handler depends on.
type Invites interface {
	Send(inviterID uuid.UUID, inviterName string, targetID uuid.UUID, clan *models.Clan, now time.Time) models.InviteResult
	Accept(ctx context.Context, targetID uuid.UUID, targetName string, now time.Time) (models.AddPlayerResult, error)
	Deny(targetID uuid.UUID, targetName string, now time.Time) bool
}

// SanctionLog defines the audit trail read the handler depends on.
type SanctionLog interface {
	Log(ctx context.Context, clanID uuid.UUID, limit, offset int) ([]models.SanctionLogEntry, error)
}

// Leaderboard defines the ranked reads the handler depends on. Nil when
// Redis is not configured.
type Leaderboard interface {
	Top(ctx context.Context, n int) ([]ranking.Entry, error)
	RankOf(ctx context.Context, clanID uuid.UUID) (int, int, error)
}

// Handler serves the player-facing clan endpoints.
type Handler struct {
	service     Service
	registry    *registry.Registry
	index       *registry.MembershipIndex
	relations   *relation.Graph
	invites     Invites
	sanctions   SanctionLog
	leaderboard Leaderboard
	resolver    identity.Resolver
	logger      *slog.Logger
}

func New(service Service, reg *registry.Registry, idx *registry.MembershipIndex, graph *relation.Graph, invites Invites, sanctions SanctionLog, lb Leaderboard, resolver identity.Resolver, logger *slog.Logger) *Handler {
	return &Handler{
		service:     service,
		registry:    reg,
		index:       idx,
		relations:   graph,
		invites:     invites,
		sanctions:   sanctions,
		leaderboard: lb,
		resolver:    resolver,
		logger:      logger,
	}
}

// Register mounts the player-facing endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/clans/{tag}", h.HandleGetClan)
	r.Get("/clans/{tag}/roster", h.HandleGetRoster)
	r.Get("/clans/{tag}/relations", h.HandleGetRelations)
	r.Get("/clans/{tag}/sanctions", h.HandleSanctionLog)
	r.Get("/leaderboard", h.HandleLeaderboard)

	r.Post("/clans", h.HandleCreateClan)
	r.Post("/clans/leave", h.HandleLeave)
	r.Post("/clans/disband", h.HandleDisband)
	r.Post("/clans/kick", h.HandleKick)
	r.Post("/clans/promote", h.HandlePromote)
	r.Post("/clans/demote", h.HandleDemote)
	r.Post("/clans/founder", h.HandleSetFounder)
	r.Post("/clans/relations", h.HandleSetRelation)
	r.Delete("/clans/relations/{tag}", h.HandleRemoveRelation)

	r.Post("/invites", h.HandleInvite)
	r.Post("/invites/accept", h.HandleInviteAccept)
	r.Post("/invites/deny", h.HandleInviteDeny)

	r.Post("/kills", h.HandleRecordKill)
}

// actor extracts the authenticated player from the request context.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	raw := requestcontext.ActorID(r.Context())
	if raw == "" {
		httputil.WriteError(w, clanerrors.New(clanerrors.CodeValidation, "player identity required"))
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, clanerrors.New(clanerrors.CodeValidation, "malformed player id"))
		return uuid.Nil, "", false
	}
	return id, requestcontext.ActorName(r.Context()), true
}

// resolveTarget resolves a player reference from a request body.
func (h *Handler) resolveTarget(w http.ResponseWriter, r *http.Request, ref string) (identity.Player, bool) {
	if ref == "" {
		httputil.BadRequestf(w, "player reference required")
		return identity.Player{}, false
	}
	p, err := h.resolver.ResolvePlayer(r.Context(), ref)
	if err != nil {
		httputil.WriteError(w, err)
		return identity.Player{}, false
	}
	return p, true
}

// clanByTag loads a clan for a path tag or writes a 404.
func (h *Handler) clanByTag(w http.ResponseWriter, r *http.Request) (*models.Clan, bool) {
	tag := chi.URLParam(r, "tag")
	clan := h.registry.GetByTag(tag)
	if clan == nil {
		httputil.WriteError(w, clanerrors.Newf(clanerrors.CodeNotFound, "no clan with tag %q", tag))
		return nil, false
	}
	return clan, true
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/registry"
	"clanhall/internal/clan/sanction"
	"clanhall/pkg/clanerrors"
	"clanhall/pkg/platform/httputil"
	"clanhall/pkg/requestcontext"
)

//go:generate mockgen -source=admin.go -destination=mocks/sanctions-mocks.go -package=mocks SanctionEngine

// SanctionEngine defines the moderation operations the admin handler
// depends on.
type SanctionEngine interface {
	ApplyPunishment(ctx context.Context, clanID uuid.UUID, severity models.Severity, details string) ([]sanction.FiredTier, error)
	AddPoints(ctx context.Context, clanID uuid.UUID, delta int, details string) ([]sanction.FiredTier, error)
	RevertPunishment(ctx context.Context, clanID uuid.UUID, severity models.Severity, details string) (int, error)
	RemovePoints(ctx context.Context, clanID uuid.UUID, delta int, details string) (int, error)
	Pardon(ctx context.Context, clanID uuid.UUID) error
	Log(ctx context.Context, clanID uuid.UUID, limit, offset int) ([]models.SanctionLogEntry, error)
}

// AdminHandler serves the moderation endpoints. Mounted behind the admin JWT
// middleware.
type AdminHandler struct {
	engine   SanctionEngine
	registry *registry.Registry
	logger   *slog.Logger
}

func NewAdmin(engine SanctionEngine, reg *registry.Registry, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{engine: engine, registry: reg, logger: logger}
}

// Register mounts the moderation endpoints.
func (h *AdminHandler) Register(r chi.Router) {
	r.Post("/clans/{tag}/sanctions", h.HandleSanction)
	r.Post("/clans/{tag}/sanctions/revert", h.HandleRevert)
	r.Post("/clans/{tag}/pardon", h.HandlePardon)
}

// SanctionRequest is the body for POST /admin/clans/{tag}/sanctions. Either
// a graded severity or a raw point delta, not both.
type SanctionRequest struct {
	Severity string `json:"severity,omitempty"`
	Points   int    `json:"points,omitempty"`
	Details  string `json:"details"`
}

// RevertRequest is the body for POST /admin/clans/{tag}/sanctions/revert.
// Either the severity of the offence being overturned or a raw point delta,
// not both.
type RevertRequest struct {
	Severity string `json:"severity,omitempty"`
	Points   int    `json:"points,omitempty"`
	Details  string `json:"details"`
}

// RevertResponse reports the balance and the tier the clan sits on after a
// reversal.
type RevertResponse struct {
	PenaltyPoints int `json:"penalty_points"`
	ResultingTier int `json:"resulting_tier"`
}

// SanctionResponse reports the new balance and any tiers the sanction fired.
type SanctionResponse struct {
	PenaltyPoints int                  `json:"penalty_points"`
	FiredTiers    []sanction.FiredTier `json:"fired_tiers"`
}

// HandleSanction handles POST /admin/clans/{tag}/sanctions.
func (h *AdminHandler) HandleSanction(w http.ResponseWriter, r *http.Request) {
	clan, ok := h.clan(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SanctionRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	var fired []sanction.FiredTier
	var err error
	switch {
	case req.Severity != "" && req.Points != 0:
		httputil.BadRequestf(w, "severity and points are mutually exclusive")
		return
	case req.Severity != "":
		fired, err = h.engine.ApplyPunishment(ctx, clan.ID, models.Severity(req.Severity), req.Details)
	case req.Points != 0:
		fired, err = h.engine.AddPoints(ctx, clan.ID, req.Points, req.Details)
	default:
		httputil.BadRequestf(w, "severity or points required")
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sanction applied",
		"request_id", requestcontext.RequestID(ctx),
		"admin", requestcontext.ActorID(ctx),
		"clan", clan.Tag,
		"points", clan.PenaltyPoints,
		"fired_tiers", len(fired),
	)
	if fired == nil {
		fired = []sanction.FiredTier{}
	}
	httputil.WriteJSON(w, http.StatusOK, SanctionResponse{
		PenaltyPoints: clan.PenaltyPoints,
		FiredTiers:    fired,
	})
}

// HandleRevert handles POST /admin/clans/{tag}/sanctions/revert.
func (h *AdminHandler) HandleRevert(w http.ResponseWriter, r *http.Request) {
	clan, ok := h.clan(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[RevertRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	var tier int
	var err error
	switch {
	case req.Severity != "" && req.Points != 0:
		httputil.BadRequestf(w, "severity and points are mutually exclusive")
		return
	case req.Severity != "":
		tier, err = h.engine.RevertPunishment(ctx, clan.ID, models.Severity(req.Severity), req.Details)
	case req.Points != 0:
		tier, err = h.engine.RemovePoints(ctx, clan.ID, req.Points, req.Details)
	default:
		httputil.BadRequestf(w, "severity or points required")
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sanction reverted",
		"request_id", requestcontext.RequestID(ctx),
		"admin", requestcontext.ActorID(ctx),
		"clan", clan.Tag,
		"points", clan.PenaltyPoints,
		"resulting_tier", tier,
	)
	httputil.WriteJSON(w, http.StatusOK, RevertResponse{
		PenaltyPoints: clan.PenaltyPoints,
		ResultingTier: tier,
	})
}

// HandlePardon handles POST /admin/clans/{tag}/pardon.
func (h *AdminHandler) HandlePardon(w http.ResponseWriter, r *http.Request) {
	clan, ok := h.clan(w, r)
	if !ok {
		return
	}
	if err := h.engine.Pardon(r.Context(), clan.ID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "clan pardoned",
		"request_id", requestcontext.RequestID(r.Context()),
		"admin", requestcontext.ActorID(r.Context()),
		"clan", clan.Tag,
	)
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Result: "success"})
}

func (h *AdminHandler) clan(w http.ResponseWriter, r *http.Request) (*models.Clan, bool) {
	tag := chi.URLParam(r, "tag")
	clan := h.registry.GetByTag(tag)
	if clan == nil {
		httputil.WriteError(w, clanerrors.Newf(clanerrors.CodeNotFound, "no clan with tag %q", tag))
		return nil, false
	}
	return clan, true
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clanhall/internal/clan/models"
	"clanhall/pkg/clanerrors"
	"clanhall/pkg/platform/httputil"
	"clanhall/pkg/requestcontext"
)

// HandleCreateClan handles POST /clans.
func (h *Handler) HandleCreateClan(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[CreateClanRequest](w, r)
	if !ok {
		return
	}

	result, clan, err := h.service.CreateClan(r.Context(), actorID, actorName, req.Tag, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if result != models.CreateClanSuccess {
		httputil.WriteJSON(w, http.StatusConflict, ResultResponse{Result: string(result)})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromClan(clan, 1))
}

// HandleLeave handles POST /clans/leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := h.actor(w, r)
	if !ok {
		return
	}
	result, err := h.service.RemovePlayerFromClan(r.Context(), actorID)
	writeResult(w, string(result), result == models.RemovePlayerSuccess, err)
}

// HandleDisband handles POST /clans/disband.
func (h *Handler) HandleDisband(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.service.DisbandClan(r.Context(), actorID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Result: "success"})
}

// HandleKick handles POST /clans/kick.
func (h *Handler) HandleKick(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}
	result, err := h.service.KickPlayerFromClan(r.Context(), actorID, target)
	writeResult(w, string(result), result == models.KickSuccess, err)
}

// HandlePromote handles POST /clans/promote.
func (h *Handler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}
	result, err := h.service.PromotePlayer(r.Context(), actorID, target)
	writeResult(w, string(result), result == models.PromoteSuccess, err)
}

// HandleDemote handles POST /clans/demote.
func (h *Handler) HandleDemote(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}
	result, err := h.service.DemotePlayer(r.Context(), actorID, target)
	writeResult(w, string(result), result == models.DemoteSuccess, err)
}

// HandleSetFounder handles POST /clans/founder.
func (h *Handler) HandleSetFounder(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}
	result, err := h.service.SetFounder(r.Context(), actorID, target)
	writeResult(w, string(result), result == models.SetFounderSuccess, err)
}

// HandleSetRelation handles POST /clans/relations.
func (h *Handler) HandleSetRelation(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SetRelationRequest](w, r)
	if !ok {
		return
	}
	if req.Type != "ally" && req.Type != "rival" {
		httputil.BadRequestf(w, "relation type must be ally or rival")
		return
	}
	if err := h.service.SetRelation(r.Context(), actorID, req.Tag, models.ParseRelationType(req.Type)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Result: "success"})
}

// HandleRemoveRelation handles DELETE /clans/relations/{tag}.
func (h *Handler) HandleRemoveRelation(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveRelation(r.Context(), actorID, chi.URLParam(r, "tag")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Result: "success"})
}

// HandleInvite handles POST /invites.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[TargetPlayerRequest](w, r)
	if !ok {
		return
	}
	target, ok := h.resolveTarget(w, r, req.Player)
	if !ok {
		return
	}

	inviter := h.index.Get(actorID)
	if inviter == nil || !inviter.InClan() {
		httputil.WriteError(w, clanerrors.New(clanerrors.CodeNotFound, "player is not in a clan"))
		return
	}
	if inviter.Role < models.RoleLeader {
		httputil.WriteError(w, clanerrors.New(clanerrors.CodeValidation, "officer rank required"))
		return
	}
	if member := h.index.Get(target.ID); member != nil && member.InClan() {
		httputil.WriteJSON(w, http.StatusConflict, ResultResponse{Result: string(models.InviteAlreadyInClan)})
		return
	}

	result := h.invites.Send(actorID, actorName, target.ID, inviter.Clan, requestcontext.Now(r.Context()))
	if result != models.InviteSuccess {
		httputil.WriteJSON(w, http.StatusConflict, ResultResponse{Result: string(result)})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Result: string(result)})
}

// HandleInviteAccept handles POST /invites/accept.
func (h *Handler) HandleInviteAccept(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := h.actor(w, r)
	if !ok {
		return
	}
	result, err := h.invites.Accept(r.Context(), actorID, actorName, requestcontext.Now(r.Context()))
	writeResult(w, string(result), result == models.AddPlayerSuccess, err)
}

// HandleInviteDeny handles POST /invites/deny.
func (h *Handler) HandleInviteDeny(w http.ResponseWriter, r *http.Request) {
	actorID, actorName, ok := h.actor(w, r)
	if !ok {
		return
	}
	if !h.invites.Deny(actorID, actorName, requestcontext.Now(r.Context())) {
		httputil.WriteError(w, clanerrors.New(clanerrors.CodeNotFound, "no pending invitation"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Result: "success"})
}

// HandleRecordKill handles POST /kills.
func (h *Handler) HandleRecordKill(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[RecordKillRequest](w, r)
	if !ok {
		return
	}
	killerID, err := uuid.Parse(req.KillerID)
	if err != nil {
		httputil.BadRequestf(w, "malformed killer id")
		return
	}
	victimID, err := uuid.Parse(req.VictimID)
	if err != nil {
		httputil.BadRequestf(w, "malformed victim id")
		return
	}
	if err := h.service.RecordKill(r.Context(), killerID, victimID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Result: "success"})
}

// actorAndTarget reads the acting player and the target player reference
// shared by the kick, promote, demote, and founder endpoints.
func (h *Handler) actorAndTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	actorID, _, ok := h.actor(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	req, ok := httputil.Decode[TargetPlayerRequest](w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	target, ok := h.resolveTarget(w, r, req.Player)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return actorID, target.ID, true
}

// writeResult maps a closed-set mutation outcome to a response: 200 on
// success, 409 on business rejection, error status on persistence faults.
func writeResult(w http.ResponseWriter, result string, success bool, err error) {
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status := http.StatusOK
	if !success {
		status = http.StatusConflict
	}
	httputil.WriteJSON(w, status, ResultResponse{Result: result})
}

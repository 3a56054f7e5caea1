package handler

import (
	"net/http"
	"sort"
	"strconv"

	"clanhall/pkg/platform/httputil"
)

// HandleGetClan handles GET /clans/{tag}.
func (h *Handler) HandleGetClan(w http.ResponseWriter, r *http.Request) {
	clan, ok := h.clanByTag(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromClan(clan, h.index.CountOf(clan.ID)))
}

// HandleGetRoster handles GET /clans/{tag}/roster. Founder first, then
// leaders, then members, each block alphabetical.
func (h *Handler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	clan, ok := h.clanByTag(w, r)
	if !ok {
		return
	}
	members := h.index.MembersOf(clan.ID)
	sort.Slice(members, func(i, j int) bool {
		if members[i].Role != members[j].Role {
			return members[i].Role > members[j].Role
		}
		return members[i].PlayerName < members[j].PlayerName
	})

	roster := make([]RosterEntry, 0, len(members))
	for _, m := range members {
		roster = append(roster, FromMembership(m))
	}
	httputil.WriteJSON(w, http.StatusOK, roster)
}

// HandleGetRelations handles GET /clans/{tag}/relations.
func (h *Handler) HandleGetRelations(w http.ResponseWriter, r *http.Request) {
	clan, ok := h.clanByTag(w, r)
	if !ok {
		return
	}
	out := make([]RelationResponse, 0)
	for _, rel := range h.relations.RelationsOf(clan.ID) {
		other := h.registry.Get(rel.Other(clan.ID))
		if other == nil {
			continue
		}
		out = append(out, RelationResponse{
			ClanID: other.ID,
			Tag:    other.Tag,
			Name:   other.Name,
			Type:   rel.Type.String(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleSanctionLog handles GET /clans/{tag}/sanctions?limit=50&offset=0,
// newest entries first.
func (h *Handler) HandleSanctionLog(w http.ResponseWriter, r *http.Request) {
	clan, ok := h.clanByTag(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	entries, err := h.sanctions.Log(r.Context(), clan.ID, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

// HandleLeaderboard handles GET /leaderboard?n=25.
func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "leaderboard not configured"})
		return
	}
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	entries, err := h.leaderboard.Top(r.Context(), n)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "leaderboard read failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

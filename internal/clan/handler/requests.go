package handler

// CreateClanRequest is the body for POST /clans.
type CreateClanRequest struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// TargetPlayerRequest references another player by uuid or display name.
type TargetPlayerRequest struct {
	Player string `json:"player"`
}

// SetRelationRequest is the body for POST /clans/relations.
type SetRelationRequest struct {
	Tag  string `json:"tag"`
	Type string `json:"type"`
}

// RecordKillRequest is the body for POST /kills. Submitted by the match
// server, not by players.
type RecordKillRequest struct {
	KillerID string `json:"killer_id"`
	VictimID string `json:"victim_id"`
}

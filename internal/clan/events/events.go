// Package events defines the clan lifecycle and sanction event stream. The
// sanction engine decides and logs; enforcement collaborators subscribe to
// this stream instead of being called in-process, which keeps the engine's
// "decide and log only" contract an explicit extension point.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an event on the clan stream.
type Kind string

const (
	KindClanCreated      Kind = "clan_created"
	KindClanDisbanded    Kind = "clan_disbanded"
	KindMemberJoined     Kind = "member_joined"
	KindMemberLeft       Kind = "member_left"
	KindMemberKicked     Kind = "member_kicked"
	KindRoleChanged      Kind = "role_changed"
	KindSanctionFired    Kind = "sanction_fired"
	KindSanctionReverted Kind = "sanction_reverted"
	KindClanPardoned     Kind = "clan_pardoned"
)

// Event is one record on the clan stream. Keep it transport-agnostic so
// publishers can fan out to Kafka, memory, or logs.
type Event struct {
	Kind      Kind      `json:"kind"`
	ClanID    uuid.UUID `json:"clan_id"`
	ClanTag   string    `json:"clan_tag,omitempty"`
	PlayerID  string    `json:"player_id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Tier      int       `json:"tier,omitempty"`
	Penalty   string    `json:"penalty,omitempty"`
	Points    int       `json:"points,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers events to the stream. Emit must not block mutation
// paths on broker latency; implementations buffer or fire-and-forget.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) error { return nil }

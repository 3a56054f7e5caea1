// Package store is the persistence gateway for clan state. Implementations
// are pure I/O: business rules (role legality, tier evaluation, duplicate
// checks against the cache) live in the services that call them. Compound
// operations (points+log, KDR+log, foundership transfer) are atomic: either
// every row lands or none does.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clanhall/internal/clan/models"
)

// MembershipRecord is the flat persisted form of a membership. Bootstrap
// loads these without resolving the clan reference; the registry resolves
// ClanID against fully materialized clans in its second pass.
type MembershipRecord struct {
	PlayerID   uuid.UUID
	PlayerName string
	ClanID     uuid.NullUUID
	Role       string
	JoinedAt   time.Time
	LastSeenAt time.Time
	Kills      int
	Deaths     int
}

// Gateway is the authoritative persistence contract. Stores return sentinel
// errors (sentinel.ErrNotFound, sentinel.ErrConflict, sentinel.ErrStale) so
// callers can branch without string matching; any other error is a
// persistence fault and the triggering mutation must abort.
type Gateway interface {
	// CreateClanWithFounder inserts the clan row and its founder membership
	// in one transaction so a clan is never observable without its founder.
	CreateClanWithFounder(ctx context.Context, clan *models.Clan, founder *models.Membership) error
	// DeleteClan removes the clan row, detaches its memberships, and deletes
	// its relations in one transaction.
	DeleteClan(ctx context.Context, clanID uuid.UUID) error

	SaveMembership(ctx context.Context, m *models.Membership) error
	DeleteMembership(ctx context.Context, playerID uuid.UUID) error
	UpdateMembershipRole(ctx context.Context, playerID uuid.UUID, role models.Role) error
	TouchLastSeen(ctx context.Context, playerID uuid.UUID, at time.Time) error
	// TransferFoundership demotes the old founder to leader and promotes the
	// new one in a single transaction; the exactly-one-founder invariant is
	// never observable as violated, not even transiently.
	TransferFoundership(ctx context.Context, clanID, oldFounderID, newFounderID uuid.UUID) error

	SaveRelation(ctx context.Context, r *models.Relation) error
	DeleteRelation(ctx context.Context, a, b uuid.UUID) error

	// Bootstrap load queries: plain records, no cross-references resolved.
	LoadClans(ctx context.Context) ([]*models.Clan, error)
	LoadMemberships(ctx context.Context) ([]MembershipRecord, error)
	LoadRelations(ctx context.Context) ([]*models.Relation, error)

	// AddPenaltyPointsAndLog applies a point delta and writes the audit row
	// together. The update is guarded by oldPoints; a stale cache value
	// returns sentinel.ErrStale instead of corrupting the balance.
	AddPenaltyPointsAndLog(ctx context.Context, clanID uuid.UUID, oldPoints, delta int, entry models.SanctionLogEntry) error
	SetPenaltyPointsAndLog(ctx context.Context, clanID uuid.UUID, oldPoints, points int, entry models.SanctionLogEntry) error
	// RevertSanctionAndLog subtracts points with a reversal-kind audit row,
	// logged distinctly from additions for audit traceability.
	RevertSanctionAndLog(ctx context.Context, clanID uuid.UUID, oldPoints, delta int, entry models.SanctionLogEntry) error
	// UpdateKDRAndLog increments the killer's kills and the victim's deaths
	// with one audit row, all in one transaction.
	UpdateKDRAndLog(ctx context.Context, killerID, victimID uuid.UUID, entry models.SanctionLogEntry) error
	UpdateRankingPoints(ctx context.Context, clanID uuid.UUID, points int) error

	SanctionLog(ctx context.Context, clanID uuid.UUID, limit, offset int) ([]models.SanctionLogEntry, error)
	InactiveMemberIDs(ctx context.Context, cutoff time.Time, batch int) ([]uuid.UUID, error)
}

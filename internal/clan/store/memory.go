package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clanhall/internal/clan/models"
	"clanhall/pkg/platform/sentinel"
)

// ErrInjected is returned by Memory when a test has armed FailNext.
var ErrInjected = errors.New("injected store failure")

// Memory is the in-memory Gateway twin used by unit tests. It mirrors the
// Postgres semantics including unique tag/name enforcement and the stale
// guard on point updates, and can inject a failure on the next write to
// exercise abort and rollback paths.
type Memory struct {
	mu          sync.RWMutex
	clans       map[uuid.UUID]*clanRow
	memberships map[uuid.UUID]MembershipRecord
	relations   map[string]*models.Relation
	log         []models.SanctionLogEntry
	failNext    bool
}

type clanRow struct {
	clan models.Clan
}

// NewMemory constructs an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		clans:       make(map[uuid.UUID]*clanRow),
		memberships: make(map[uuid.UUID]MembershipRecord),
		relations:   make(map[string]*models.Relation),
	}
}

// FailNext makes the next mutating call return ErrInjected without touching
// state.
func (m *Memory) FailNext() {
	m.mu.Lock()
	m.failNext = true
	m.mu.Unlock()
}

func (m *Memory) takeFailure() bool {
	if m.failNext {
		m.failNext = false
		return true
	}
	return false
}

// LogEntries returns a copy of the audit log for assertions.
func (m *Memory) LogEntries() []models.SanctionLogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.SanctionLogEntry, len(m.log))
	copy(out, m.log)
	return out
}

func (m *Memory) CreateClanWithFounder(_ context.Context, clan *models.Clan, founder *models.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	for _, row := range m.clans {
		if models.NormalizeTag(row.clan.Tag) == models.NormalizeTag(clan.Tag) ||
			models.NormalizeTag(row.clan.Name) == models.NormalizeTag(clan.Name) {
			return sentinel.ErrConflict
		}
	}
	m.clans[clan.ID] = &clanRow{clan: *clan}
	m.memberships[founder.PlayerID] = recordOf(founder)
	return nil
}

func (m *Memory) DeleteClan(_ context.Context, clanID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	if _, ok := m.clans[clanID]; !ok {
		return sentinel.ErrNotFound
	}
	for id, rec := range m.memberships {
		if rec.ClanID.Valid && rec.ClanID.UUID == clanID {
			rec.ClanID = uuid.NullUUID{}
			rec.Role = models.RoleMember.String()
			m.memberships[id] = rec
		}
	}
	for key, rel := range m.relations {
		if rel.Involves(clanID) {
			delete(m.relations, key)
		}
	}
	delete(m.clans, clanID)
	return nil
}

func (m *Memory) SaveMembership(_ context.Context, mem *models.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	m.memberships[mem.PlayerID] = recordOf(mem)
	return nil
}

func (m *Memory) DeleteMembership(_ context.Context, playerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	delete(m.memberships, playerID)
	return nil
}

func (m *Memory) UpdateMembershipRole(_ context.Context, playerID uuid.UUID, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	rec, ok := m.memberships[playerID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.Role = role.String()
	m.memberships[playerID] = rec
	return nil
}

func (m *Memory) TouchLastSeen(_ context.Context, playerID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.memberships[playerID]
	if !ok {
		return nil
	}
	rec.LastSeenAt = at
	m.memberships[playerID] = rec
	return nil
}

func (m *Memory) TransferFoundership(_ context.Context, clanID, oldFounderID, newFounderID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	oldRec, ok := m.memberships[oldFounderID]
	if !ok || !oldRec.ClanID.Valid || oldRec.ClanID.UUID != clanID || oldRec.Role != models.RoleFounder.String() {
		return sentinel.ErrStale
	}
	newRec, ok := m.memberships[newFounderID]
	if !ok || !newRec.ClanID.Valid || newRec.ClanID.UUID != clanID || newRec.Role != models.RoleLeader.String() {
		return sentinel.ErrStale
	}
	oldRec.Role = models.RoleLeader.String()
	newRec.Role = models.RoleFounder.String()
	m.memberships[oldFounderID] = oldRec
	m.memberships[newFounderID] = newRec
	if row, ok := m.clans[clanID]; ok {
		row.clan.FounderName = newRec.PlayerName
	}
	return nil
}

func (m *Memory) SaveRelation(_ context.Context, r *models.Relation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	cp := *r
	m.relations[r.Key()] = &cp
	return nil
}

func (m *Memory) DeleteRelation(_ context.Context, a, b uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	delete(m.relations, models.PairKey(a, b))
	return nil
}

func (m *Memory) LoadClans(_ context.Context) ([]*models.Clan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clans := make([]*models.Clan, 0, len(m.clans))
	for _, row := range m.clans {
		c := row.clan
		clans = append(clans, &c)
	}
	sort.Slice(clans, func(i, j int) bool { return clans[i].CreatedAt.Before(clans[j].CreatedAt) })
	return clans, nil
}

func (m *Memory) LoadMemberships(_ context.Context) ([]MembershipRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]MembershipRecord, 0, len(m.memberships))
	for _, rec := range m.memberships {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].JoinedAt.Before(records[j].JoinedAt) })
	return records, nil
}

func (m *Memory) LoadRelations(_ context.Context) ([]*models.Relation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	relations := make([]*models.Relation, 0, len(m.relations))
	for _, r := range m.relations {
		cp := *r
		relations = append(relations, &cp)
	}
	return relations, nil
}

func (m *Memory) AddPenaltyPointsAndLog(_ context.Context, clanID uuid.UUID, oldPoints, delta int, entry models.SanctionLogEntry) error {
	return m.pointsWrite(clanID, oldPoints, oldPoints+delta, entry)
}

func (m *Memory) SetPenaltyPointsAndLog(_ context.Context, clanID uuid.UUID, oldPoints, points int, entry models.SanctionLogEntry) error {
	return m.pointsWrite(clanID, oldPoints, points, entry)
}

func (m *Memory) RevertSanctionAndLog(_ context.Context, clanID uuid.UUID, oldPoints, delta int, entry models.SanctionLogEntry) error {
	return m.pointsWrite(clanID, oldPoints, oldPoints-delta, entry)
}

func (m *Memory) pointsWrite(clanID uuid.UUID, oldPoints, newPoints int, entry models.SanctionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	if newPoints < 0 {
		return sentinel.ErrInvalidState
	}
	row, ok := m.clans[clanID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if row.clan.PenaltyPoints != oldPoints {
		return sentinel.ErrStale
	}
	row.clan.PenaltyPoints = newPoints
	m.log = append(m.log, entry)
	return nil
}

func (m *Memory) UpdateKDRAndLog(_ context.Context, killerID, victimID uuid.UUID, entry models.SanctionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	if rec, ok := m.memberships[killerID]; ok {
		rec.Kills++
		m.memberships[killerID] = rec
	}
	if rec, ok := m.memberships[victimID]; ok {
		rec.Deaths++
		m.memberships[victimID] = rec
	}
	m.log = append(m.log, entry)
	return nil
}

func (m *Memory) UpdateRankingPoints(_ context.Context, clanID uuid.UUID, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrInjected
	}
	row, ok := m.clans[clanID]
	if !ok {
		return sentinel.ErrNotFound
	}
	row.clan.RankingPoints = points
	return nil
}

func (m *Memory) SanctionLog(_ context.Context, clanID uuid.UUID, limit, offset int) ([]models.SanctionLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matching []models.SanctionLogEntry
	for i := len(m.log) - 1; i >= 0; i-- {
		if m.log[i].ClanID == clanID {
			matching = append(matching, m.log[i])
		}
	}
	if offset >= len(matching) {
		return nil, nil
	}
	matching = matching[offset:]
	if limit < len(matching) {
		matching = matching[:limit]
	}
	return matching, nil
}

func (m *Memory) InactiveMemberIDs(_ context.Context, cutoff time.Time, batch int) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []uuid.UUID
	for id, rec := range m.memberships {
		if rec.ClanID.Valid && rec.Role != models.RoleFounder.String() && rec.LastSeenAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	if batch < len(ids) {
		ids = ids[:batch]
	}
	return ids, nil
}

func recordOf(m *models.Membership) MembershipRecord {
	rec := MembershipRecord{
		PlayerID:   m.PlayerID,
		PlayerName: m.PlayerName,
		Role:       m.Role.String(),
		JoinedAt:   m.JoinedAt,
		LastSeenAt: m.LastSeenAt,
		Kills:      m.Kills,
		Deaths:     m.Deaths,
	}
	if m.Clan != nil {
		rec.ClanID = uuid.NullUUID{UUID: m.Clan.ID, Valid: true}
	}
	return rec
}

var _ Gateway = (*Memory)(nil)

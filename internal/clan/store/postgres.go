package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clanhall/internal/clan/models"
	"clanhall/pkg/platform/sentinel"
)

// Schema is the DDL for the clan tables. Applied by ops tooling and by the
// integration-test harness; the server assumes the tables exist.
const Schema = `
CREATE TABLE IF NOT EXISTS clans (
	id             UUID PRIMARY KEY,
	tag            TEXT NOT NULL,
	name           TEXT NOT NULL,
	founder_name   TEXT NOT NULL,
	friendly_fire  BOOLEAN NOT NULL DEFAULT FALSE,
	penalty_points INTEGER NOT NULL DEFAULT 0 CHECK (penalty_points >= 0),
	ranking_points INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS clans_tag_ci ON clans (LOWER(tag));
CREATE UNIQUE INDEX IF NOT EXISTS clans_name_ci ON clans (LOWER(name));

CREATE TABLE IF NOT EXISTS memberships (
	player_id    UUID PRIMARY KEY,
	player_name  TEXT NOT NULL,
	clan_id      UUID REFERENCES clans (id) ON DELETE SET NULL,
	role         TEXT NOT NULL DEFAULT 'member',
	joined_at    TIMESTAMPTZ NOT NULL,
	last_seen_at TIMESTAMPTZ NOT NULL,
	kills        INTEGER NOT NULL DEFAULT 0,
	deaths       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS memberships_clan ON memberships (clan_id);

CREATE TABLE IF NOT EXISTS relations (
	pair_key   TEXT PRIMARY KEY,
	clan_a     UUID NOT NULL REFERENCES clans (id) ON DELETE CASCADE,
	clan_b     UUID NOT NULL REFERENCES clans (id) ON DELETE CASCADE,
	rel_type   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sanction_log (
	id          BIGSERIAL PRIMARY KEY,
	clan_id     UUID NOT NULL,
	kind        TEXT NOT NULL,
	author_id   TEXT NOT NULL DEFAULT '',
	author_name TEXT NOT NULL DEFAULT '',
	target_id   TEXT NOT NULL DEFAULT '',
	target_name TEXT NOT NULL DEFAULT '',
	delta       INTEGER NOT NULL DEFAULT 0,
	old_points  INTEGER NOT NULL DEFAULT 0,
	new_points  INTEGER NOT NULL DEFAULT 0,
	details     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sanction_log_clan ON sanction_log (clan_id, id DESC);
`

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// Postgres is the production Gateway backed by PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed gateway.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema applies the DDL. Idempotent.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Postgres) CreateClanWithFounder(ctx context.Context, clan *models.Clan, founder *models.Membership) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create clan: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO clans (id, tag, name, founder_name, friendly_fire, penalty_points, ranking_points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, clan.ID, clan.Tag, clan.Name, clan.FounderName, clan.FriendlyFire, clan.PenaltyPoints, clan.RankingPoints, clan.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert clan: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert clan: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (player_id, player_name, clan_id, role, joined_at, last_seen_at, kills, deaths)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			clan_id = EXCLUDED.clan_id,
			role = EXCLUDED.role,
			joined_at = EXCLUDED.joined_at
	`, founder.PlayerID, founder.PlayerName, clan.ID, founder.Role.String(), founder.JoinedAt, founder.LastSeenAt, founder.Kills, founder.Deaths)
	if err != nil {
		return fmt.Errorf("insert founder membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create clan: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteClan(ctx context.Context, clanID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete clan: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE memberships SET clan_id = NULL, role = 'member' WHERE clan_id = $1`, clanID); err != nil {
		return fmt.Errorf("detach members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM relations WHERE clan_a = $1 OR clan_b = $1`, clanID); err != nil {
		return fmt.Errorf("delete relations: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM clans WHERE id = $1`, clanID)
	if err != nil {
		return fmt.Errorf("delete clan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete clan rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete clan %s: %w", clanID, sentinel.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete clan: %w", err)
	}
	return nil
}

func (s *Postgres) SaveMembership(ctx context.Context, m *models.Membership) error {
	var clanID uuid.NullUUID
	if m.Clan != nil {
		clanID = uuid.NullUUID{UUID: m.Clan.ID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memberships (player_id, player_name, clan_id, role, joined_at, last_seen_at, kills, deaths)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			clan_id = EXCLUDED.clan_id,
			role = EXCLUDED.role,
			joined_at = EXCLUDED.joined_at,
			last_seen_at = EXCLUDED.last_seen_at,
			kills = EXCLUDED.kills,
			deaths = EXCLUDED.deaths
	`, m.PlayerID, m.PlayerName, clanID, m.Role.String(), m.JoinedAt, m.LastSeenAt, m.Kills, m.Deaths)
	if err != nil {
		return fmt.Errorf("save membership: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteMembership(ctx context.Context, playerID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM memberships WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateMembershipRole(ctx context.Context, playerID uuid.UUID, role models.Role) error {
	result, err := s.db.ExecContext(ctx, `UPDATE memberships SET role = $2 WHERE player_id = $1`, playerID, role.String())
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update role rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update role for %s: %w", playerID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) TouchLastSeen(ctx context.Context, playerID uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE memberships SET last_seen_at = $2 WHERE player_id = $1`, playerID, at)
	if err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}

// TransferFoundership swaps roles in one transaction. Both updates are
// guarded by the expected current role so a concurrent change fails the
// whole transfer instead of minting a second founder.
func (s *Postgres) TransferFoundership(ctx context.Context, clanID, oldFounderID, newFounderID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer foundership: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE memberships SET role = 'leader'
		WHERE player_id = $1 AND clan_id = $2 AND role = 'founder'
	`, oldFounderID, clanID)
	if err != nil {
		return fmt.Errorf("demote old founder: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("demote old founder: %w", sentinel.ErrStale)
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE memberships SET role = 'founder'
		WHERE player_id = $1 AND clan_id = $2 AND role = 'leader'
	`, newFounderID, clanID)
	if err != nil {
		return fmt.Errorf("promote new founder: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("promote new founder: %w", sentinel.ErrStale)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE clans SET founder_name = (SELECT player_name FROM memberships WHERE player_id = $2)
		WHERE id = $1
	`, clanID, newFounderID); err != nil {
		return fmt.Errorf("update clan founder name: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer foundership: %w", err)
	}
	return nil
}

func (s *Postgres) SaveRelation(ctx context.Context, r *models.Relation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO relations (pair_key, clan_a, clan_b, rel_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pair_key) DO UPDATE SET rel_type = EXCLUDED.rel_type
	`, r.Key(), r.ClanA, r.ClanB, r.Type.String(), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("save relation: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteRelation(ctx context.Context, a, b uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM relations WHERE pair_key = $1`, models.PairKey(a, b))
	if err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	return nil
}

func (s *Postgres) LoadClans(ctx context.Context) ([]*models.Clan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tag, name, founder_name, friendly_fire, penalty_points, ranking_points, created_at
		FROM clans
	`)
	if err != nil {
		return nil, fmt.Errorf("load clans: %w", err)
	}
	defer rows.Close()

	var clans []*models.Clan
	for rows.Next() {
		var c models.Clan
		if err := rows.Scan(&c.ID, &c.Tag, &c.Name, &c.FounderName, &c.FriendlyFire, &c.PenaltyPoints, &c.RankingPoints, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan clan: %w", err)
		}
		clans = append(clans, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load clans: %w", err)
	}
	return clans, nil
}

func (s *Postgres) LoadMemberships(ctx context.Context) ([]MembershipRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, player_name, clan_id, role, joined_at, last_seen_at, kills, deaths
		FROM memberships
	`)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	defer rows.Close()

	var records []MembershipRecord
	for rows.Next() {
		var r MembershipRecord
		if err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.ClanID, &r.Role, &r.JoinedAt, &r.LastSeenAt, &r.Kills, &r.Deaths); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	return records, nil
}

func (s *Postgres) LoadRelations(ctx context.Context) ([]*models.Relation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT clan_a, clan_b, rel_type, created_at FROM relations`)
	if err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}
	defer rows.Close()

	var relations []*models.Relation
	for rows.Next() {
		var r models.Relation
		var relType string
		if err := rows.Scan(&r.ClanA, &r.ClanB, &relType, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		r.Type = models.ParseRelationType(relType)
		relations = append(relations, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}
	return relations, nil
}

func (s *Postgres) AddPenaltyPointsAndLog(ctx context.Context, clanID uuid.UUID, oldPoints, delta int, entry models.SanctionLogEntry) error {
	return s.pointsTx(ctx, "add penalty points", clanID, oldPoints, oldPoints+delta, entry)
}

func (s *Postgres) SetPenaltyPointsAndLog(ctx context.Context, clanID uuid.UUID, oldPoints, points int, entry models.SanctionLogEntry) error {
	return s.pointsTx(ctx, "set penalty points", clanID, oldPoints, points, entry)
}

func (s *Postgres) RevertSanctionAndLog(ctx context.Context, clanID uuid.UUID, oldPoints, delta int, entry models.SanctionLogEntry) error {
	return s.pointsTx(ctx, "revert sanction", clanID, oldPoints, oldPoints-delta, entry)
}

// pointsTx writes the new balance and its audit row together. The balance
// update is guarded by the caller's view of the old balance: zero rows means
// the cache was stale and the whole transaction aborts.
func (s *Postgres) pointsTx(ctx context.Context, op string, clanID uuid.UUID, oldPoints, newPoints int, entry models.SanctionLogEntry) error {
	if newPoints < 0 {
		return fmt.Errorf("%s: negative balance: %w", op, sentinel.ErrInvalidState)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE clans SET penalty_points = $3
		WHERE id = $1 AND penalty_points = $2
	`, clanID, oldPoints, newPoints)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s for %s: %w", op, clanID, sentinel.ErrStale)
	}

	if err := insertLog(ctx, tx, entry); err != nil {
		return fmt.Errorf("%s log: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	return nil
}

func (s *Postgres) UpdateKDRAndLog(ctx context.Context, killerID, victimID uuid.UUID, entry models.SanctionLogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kdr update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE memberships SET kills = kills + 1 WHERE player_id = $1`, killerID); err != nil {
		return fmt.Errorf("increment kills: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE memberships SET deaths = deaths + 1 WHERE player_id = $1`, victimID); err != nil {
		return fmt.Errorf("increment deaths: %w", err)
	}
	if err := insertLog(ctx, tx, entry); err != nil {
		return fmt.Errorf("kdr log: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit kdr update: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateRankingPoints(ctx context.Context, clanID uuid.UUID, points int) error {
	result, err := s.db.ExecContext(ctx, `UPDATE clans SET ranking_points = $2 WHERE id = $1`, clanID, points)
	if err != nil {
		return fmt.Errorf("update ranking points: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ranking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update ranking for %s: %w", clanID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) SanctionLog(ctx context.Context, clanID uuid.UUID, limit, offset int) ([]models.SanctionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, clan_id, kind, author_id, author_name, target_id, target_name, delta, old_points, new_points, details, created_at
		FROM sanction_log
		WHERE clan_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, clanID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sanction log: %w", err)
	}
	defer rows.Close()

	var entries []models.SanctionLogEntry
	for rows.Next() {
		var e models.SanctionLogEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.ClanID, &kind, &e.AuthorID, &e.AuthorName, &e.TargetID, &e.TargetName, &e.Delta, &e.OldPoints, &e.NewPoints, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sanction log: %w", err)
		}
		e.Kind = models.SanctionLogKind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sanction log: %w", err)
	}
	return entries, nil
}

func (s *Postgres) InactiveMemberIDs(ctx context.Context, cutoff time.Time, batch int) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id FROM memberships
		WHERE clan_id IS NOT NULL AND role <> 'founder' AND last_seen_at < $1
		ORDER BY last_seen_at ASC
		LIMIT $2
	`, cutoff, batch)
	if err != nil {
		return nil, fmt.Errorf("inactive members: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan inactive member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inactive members: %w", err)
	}
	return ids, nil
}

func insertLog(ctx context.Context, tx *sql.Tx, entry models.SanctionLogEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sanction_log (clan_id, kind, author_id, author_name, target_id, target_name, delta, old_points, new_points, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, entry.ClanID, string(entry.Kind), entry.AuthorID, entry.AuthorName, entry.TargetID, entry.TargetName, entry.Delta, entry.OldPoints, entry.NewPoints, entry.Details, entry.CreatedAt)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var _ Gateway = (*Postgres)(nil)

// Package sqlite provides a SQLite-backed battle storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/megamek/acar/internal/platform/storage/sqlitemigrate"
	"github.com/megamek/acar/internal/services/combat/storage"
	"github.com/megamek/acar/internal/services/combat/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrAlreadyExists indicates a battle with the same id is stored.
var ErrAlreadyExists = errors.New("record already exists")

// Store persists battles in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite battle store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveBattle stores a battle with its reports, formations and kills in one
// transaction.
func (s *Store) SaveBattle(ctx context.Context, record storage.BattleRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		id = uuid.NewString()
	}
	scenario := strings.TrimSpace(record.Scenario)
	if scenario == "" {
		return "", fmt.Errorf("scenario is required")
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save battle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO battles (id, scenario, seed, rounds, victory, draw, winning_team, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, scenario, record.Seed, record.Rounds,
		boolInt(record.Victory), boolInt(record.Draw), record.WinningTeam, toMillis(createdAt),
	); err != nil {
		if isUniqueViolation(err) {
			return "", ErrAlreadyExists
		}
		return "", fmt.Errorf("insert battle: %w", err)
	}

	for i, r := range record.Reports {
		args, err := json.Marshal(r.Args)
		if err != nil {
			return "", fmt.Errorf("encode report %d args: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO battle_reports (battle_id, seq, message_id, args, indent, public)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, r.MessageID, string(args), r.Indent, boolInt(r.Public),
		); err != nil {
			return "", fmt.Errorf("insert report %d: %w", i, err)
		}
	}

	for _, f := range record.Formations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO battle_formations (battle_id, formation_id, player_id, team, name, outcome, morale_status, armor, max_armor)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, f.FormationID, f.PlayerID, f.Team, f.Name, f.Outcome, f.MoraleStatus, f.Armor, f.MaxArmor,
		); err != nil {
			return "", fmt.Errorf("insert formation %d: %w", f.FormationID, err)
		}
	}

	for i, k := range record.Kills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO battle_kills (battle_id, seq, round, killer_id, victim_id) VALUES (?, ?, ?, ?, ?)`,
			id, i, k.Round, k.KillerID, k.VictimID,
		); err != nil {
			return "", fmt.Errorf("insert kill %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save battle: %w", err)
	}
	return id, nil
}

// GetBattle loads one battle by id.
func (s *Store) GetBattle(ctx context.Context, id string) (storage.BattleRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.BattleRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.BattleRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.BattleRecord{}, fmt.Errorf("battle id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, scenario, seed, rounds, victory, draw, winning_team, created_at
		   FROM battles
		  WHERE id = ?`,
		id,
	)
	summary, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BattleRecord{}, storage.ErrNotFound
		}
		return storage.BattleRecord{}, fmt.Errorf("get battle: %w", err)
	}
	record := storage.BattleRecord{
		ID:          summary.ID,
		Scenario:    summary.Scenario,
		Seed:        summary.Seed,
		Rounds:      summary.Rounds,
		Victory:     summary.Victory,
		Draw:        summary.Draw,
		WinningTeam: summary.WinningTeam,
		CreatedAt:   summary.CreatedAt,
	}
	if record.Reports, err = s.reports(ctx, id); err != nil {
		return storage.BattleRecord{}, err
	}
	if record.Formations, err = s.formations(ctx, id); err != nil {
		return storage.BattleRecord{}, err
	}
	if record.Kills, err = s.kills(ctx, id); err != nil {
		return storage.BattleRecord{}, err
	}
	return record, nil
}

// ListBattles returns the newest battles first, optionally filtered by
// scenario name.
func (s *Store) ListBattles(ctx context.Context, scenario string, limit int) ([]storage.BattleSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	scenario = strings.TrimSpace(scenario)

	var (
		rows *sql.Rows
		err  error
	)
	if scenario == "" {
		rows, err = s.sqlDB.QueryContext(ctx,
			`SELECT id, scenario, seed, rounds, victory, draw, winning_team, created_at
			   FROM battles
			  ORDER BY created_at DESC, id ASC
			  LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.sqlDB.QueryContext(ctx,
			`SELECT id, scenario, seed, rounds, victory, draw, winning_team, created_at
			   FROM battles
			  WHERE scenario = ?
			  ORDER BY created_at DESC, id ASC
			  LIMIT ?`,
			scenario, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var out []storage.BattleSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("list battles: %w", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (storage.BattleSummary, error) {
	var summary storage.BattleSummary
	var victory, draw int
	var createdAt int64
	if err := row.Scan(
		&summary.ID,
		&summary.Scenario,
		&summary.Seed,
		&summary.Rounds,
		&victory,
		&draw,
		&summary.WinningTeam,
		&createdAt,
	); err != nil {
		return storage.BattleSummary{}, err
	}
	summary.Victory = victory != 0
	summary.Draw = draw != 0
	summary.CreatedAt = fromMillis(createdAt)
	return summary, nil
}

func (s *Store) reports(ctx context.Context, id string) ([]storage.ReportRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, message_id, args, indent, public
		   FROM battle_reports
		  WHERE battle_id = ?
		  ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []storage.ReportRecord
	for rows.Next() {
		var r storage.ReportRecord
		var args string
		var public int
		if err := rows.Scan(&r.Seq, &r.MessageID, &args, &r.Indent, &public); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if err := json.Unmarshal([]byte(args), &r.Args); err != nil {
			return nil, fmt.Errorf("decode report %d args: %w", r.Seq, err)
		}
		r.Public = public != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) formations(ctx context.Context, id string) ([]storage.FormationRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT formation_id, player_id, team, name, outcome, morale_status, armor, max_armor
		   FROM battle_formations
		  WHERE battle_id = ?
		  ORDER BY formation_id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}
	defer rows.Close()

	var out []storage.FormationRecord
	for rows.Next() {
		var f storage.FormationRecord
		if err := rows.Scan(&f.FormationID, &f.PlayerID, &f.Team, &f.Name, &f.Outcome, &f.MoraleStatus, &f.Armor, &f.MaxArmor); err != nil {
			return nil, fmt.Errorf("scan formation: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) kills(ctx context.Context, id string) ([]storage.KillRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT round, killer_id, victim_id
		   FROM battle_kills
		  WHERE battle_id = ?
		  ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list kills: %w", err)
	}
	defer rows.Close()

	var out []storage.KillRecord
	for rows.Next() {
		var k storage.KillRecord
		if err := rows.Scan(&k.Round, &k.KillerID, &k.VictimID); err != nil {
			return nil, fmt.Errorf("scan kill: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.BattleStore = (*Store)(nil)

// Package storage defines persistence contracts for resolved battles.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested battle record is missing.
var ErrNotFound = errors.New("record not found")

// BattleRecord is one resolved battle with its log and final state.
type BattleRecord struct {
	ID          string
	Scenario    string
	Seed        int64
	Rounds      int
	Victory     bool
	Draw        bool
	WinningTeam int
	CreatedAt   time.Time
	Reports     []ReportRecord
	Formations  []FormationRecord
	Kills       []KillRecord
}

// ReportRecord is one stored report entry. Args are persisted as JSON, so
// numbers read back as float64.
type ReportRecord struct {
	Seq       int
	MessageID int
	Args      []any
	Indent    int
	Public    bool
}

// FormationRecord is a formation's state when the battle ended.
type FormationRecord struct {
	FormationID  int
	PlayerID     int
	Team         int
	Name         string
	Outcome      string
	MoraleStatus string
	Armor        int
	MaxArmor     int
}

// KillRecord attributes one destroyed unit.
type KillRecord struct {
	Round    int
	KillerID int
	VictimID int
}

// BattleSummary is a list view of a battle without its log.
type BattleSummary struct {
	ID          string
	Scenario    string
	Seed        int64
	Rounds      int
	Victory     bool
	Draw        bool
	WinningTeam int
	CreatedAt   time.Time
}

// BattleStore persists resolved battles. SaveBattle assigns an id when the
// record has none and returns the stored id.
type BattleStore interface {
	SaveBattle(ctx context.Context, record BattleRecord) (string, error)
	GetBattle(ctx context.Context, id string) (BattleRecord, error)
	ListBattles(ctx context.Context, scenario string, limit int) ([]BattleSummary, error)
}

package resolve

import (
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/storage"
)

// Record converts an outcome into its storage form.
func Record(o Outcome) storage.BattleRecord {
	record := storage.BattleRecord{
		ID:          o.BattleID,
		Scenario:    o.Scenario,
		Seed:        o.Seed,
		Rounds:      o.Rounds,
		Victory:     o.Result.Victory,
		Draw:        o.Result.Draw,
		WinningTeam: o.Result.WinningTeam,
	}
	for i, e := range o.Reports {
		record.Reports = append(record.Reports, storage.ReportRecord{
			Seq:       i,
			MessageID: e.MessageID,
			Args:      e.Args,
			Indent:    e.Indent,
			Public:    e.Public,
		})
	}
	if o.State == nil {
		return record
	}
	for _, f := range o.State.AllFormations() {
		outcome, _ := o.State.Outcome(f.ID)
		record.Formations = append(record.Formations, storage.FormationRecord{
			FormationID:  f.ID,
			PlayerID:     f.PlayerID,
			Team:         o.State.Team(f),
			Name:         f.Name,
			Outcome:      outcome.String(),
			MoraleStatus: f.MoraleStatus.String(),
			Armor:        f.Armor(),
			MaxArmor:     f.MaxArmor(),
		})
	}
	for _, k := range o.State.Kills() {
		record.Kills = append(record.Kills, storage.KillRecord{Round: k.Round, KillerID: k.KillerID, VictimID: k.VictimID})
	}
	return record
}

// Entries converts stored report records back into entries for rendering.
func Entries(records []storage.ReportRecord) []report.Entry {
	entries := make([]report.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, report.Entry{
			MessageID: r.MessageID,
			Args:      r.Args,
			Indent:    r.Indent,
			Public:    r.Public,
		})
	}
	return entries
}

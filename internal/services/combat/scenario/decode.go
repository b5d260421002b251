package scenario

import (
	"fmt"

	"github.com/megamek/acar/internal/services/combat/domain/battle"
)

// Defaults for fields a script may omit.
const (
	defaultSkill   = 4
	defaultTactics = 4
	defaultMorale  = 4
)

// fields is a decoded Lua table.
type fields map[string]any

func (f fields) intOr(key string, def int) (int, error) {
	raw, ok := f[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, raw)
	}
}

func (f fields) required(key string) (int, error) {
	if _, ok := f[key]; !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	return f.intOr(key, 0)
}

func (f fields) str(key string) (string, error) {
	raw, ok := f[key]
	if !ok || raw == nil {
		return "", nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, raw)
	}
	return v, nil
}

func (f fields) boolean(key string) (bool, error) {
	raw, ok := f[key]
	if !ok || raw == nil {
		return false, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %T", key, raw)
	}
	return v, nil
}

func (f fields) list(key string) ([]any, error) {
	raw, ok := f[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if len(v) == 0 {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%s must be a list", key)
}

// intList reads a Lua sequence of integers, as used for damage values.
func intList(values []any) ([]int, error) {
	out := make([]int, 0, len(values))
	for i, raw := range values {
		v, ok := raw.(int)
		if !ok {
			return nil, fmt.Errorf("entry %d must be an integer", i+1)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodePlayer(f fields) (battle.Player, error) {
	var p battle.Player
	var err error
	if p.ID, err = f.required("id"); err != nil {
		return p, err
	}
	if p.Name, err = f.str("name"); err != nil {
		return p, err
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("Player %d", p.ID)
	}
	if p.Team, err = f.intOr("team", p.ID); err != nil {
		return p, err
	}
	if p.InitiativeBonus, err = f.intOr("initiative", 0); err != nil {
		return p, err
	}
	return p, nil
}

func decodeFormation(f fields) (FormationSpec, error) {
	var spec FormationSpec
	out := &spec.Formation
	var err error
	if out.ID, err = f.required("id"); err != nil {
		return spec, err
	}
	if out.PlayerID, err = f.required("player"); err != nil {
		return spec, err
	}
	if out.Name, err = f.str("name"); err != nil {
		return spec, err
	}
	if out.Name == "" {
		out.Name = fmt.Sprintf("Formation %d", out.ID)
	}
	kind, err := f.str("kind")
	if err != nil {
		return spec, err
	}
	if out.Kind, err = battle.ParseFormationKind(kind); err != nil {
		return spec, err
	}
	if out.Skill, err = f.intOr("skill", defaultSkill); err != nil {
		return spec, err
	}
	if out.Tactics, err = f.intOr("tactics", defaultTactics); err != nil {
		return spec, err
	}
	if out.Morale, err = f.intOr("morale", defaultMorale); err != nil {
		return spec, err
	}
	status, err := f.str("morale_status")
	if err != nil {
		return spec, err
	}
	if status != "" {
		if out.MoraleStatus, err = battle.ParseMoraleStatus(status); err != nil {
			return spec, err
		}
	}
	if out.Size, err = f.intOr("size", 0); err != nil {
		return spec, err
	}
	if out.Jump, err = f.intOr("jump", 0); err != nil {
		return spec, err
	}
	if out.Movement, err = f.intOr("movement", 0); err != nil {
		return spec, err
	}
	if out.DeployRound, err = f.intOr("deploy_round", 0); err != nil {
		return spec, err
	}
	preferred, err := f.str("preferred")
	if err != nil {
		return spec, err
	}
	if preferred != "" {
		if out.Preferred, err = battle.ParseEngagementControl(preferred); err != nil {
			return spec, err
		}
	}
	if out.Deployed, err = f.boolean("deployed"); err != nil {
		return spec, err
	}

	units, err := f.list("units")
	if err != nil {
		return spec, err
	}
	for i, raw := range units {
		table, ok := raw.(map[string]any)
		if !ok {
			return spec, fmt.Errorf("formation %d unit %d must be a table", out.ID, i+1)
		}
		unit, err := decodeUnit(fields(table), out.Skill, out.Deployed)
		if err != nil {
			return spec, fmt.Errorf("formation %d unit %d: %w", out.ID, i+1, err)
		}
		spec.Units = append(spec.Units, unit)
	}
	return spec, nil
}

func decodeUnit(f fields, skill int, deployed bool) (UnitSpec, error) {
	var spec UnitSpec
	u := &spec.Unit
	var err error
	if u.Name, err = f.str("name"); err != nil {
		return spec, err
	}
	if u.Skill, err = f.intOr("skill", skill); err != nil {
		return spec, err
	}
	if u.Armor, err = f.required("armor"); err != nil {
		return spec, err
	}
	if u.CurrentArmor, err = f.intOr("current_armor", u.Armor); err != nil {
		return spec, err
	}
	if u.Damage, err = decodeDamage(f["damage"]); err != nil {
		return spec, err
	}

	elements, err := f.list("elements")
	if err != nil {
		return spec, err
	}
	for i, raw := range elements {
		e := battle.Element{Deployed: deployed}
		switch v := raw.(type) {
		case int:
			e.ID = v
		case map[string]any:
			ef := fields(v)
			if e.ID, err = ef.required("id"); err != nil {
				return spec, fmt.Errorf("element %d: %w", i+1, err)
			}
			if e.Name, err = ef.str("name"); err != nil {
				return spec, fmt.Errorf("element %d: %w", i+1, err)
			}
		default:
			return spec, fmt.Errorf("element %d must be an id or a table", i+1)
		}
		if e.Name == "" {
			e.Name = u.Name
		}
		spec.Elements = append(spec.Elements, e)
	}
	return spec, nil
}

// decodeDamage accepts {short=, medium=, long=, extreme=} or a sequence
// of up to four values in that order.
func decodeDamage(raw any) (battle.DamageVector, error) {
	var d battle.DamageVector
	switch v := raw.(type) {
	case nil:
		return d, nil
	case []any:
		values, err := intList(v)
		if err != nil {
			return d, fmt.Errorf("damage: %w", err)
		}
		if len(values) > 4 {
			return d, fmt.Errorf("damage has %d brackets, want at most 4", len(values))
		}
		targets := []*int{&d.Short, &d.Medium, &d.Long, &d.Extreme}
		for i, value := range values {
			*targets[i] = value
		}
		return d, nil
	case map[string]any:
		f := fields(v)
		var err error
		if d.Short, err = f.intOr("short", 0); err != nil {
			return d, err
		}
		if d.Medium, err = f.intOr("medium", 0); err != nil {
			return d, err
		}
		if d.Long, err = f.intOr("long", 0); err != nil {
			return d, err
		}
		if d.Extreme, err = f.intOr("extreme", 0); err != nil {
			return d, err
		}
		return d, nil
	default:
		return d, fmt.Errorf("damage must be a table, got %T", raw)
	}
}

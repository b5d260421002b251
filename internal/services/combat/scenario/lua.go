package scenario

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
	apperrors "github.com/megamek/acar/internal/platform/errors"
	"github.com/megamek/acar/internal/services/combat/domain/battle"
)

const battleTypeName = "battle"

// LoadFile runs the scenario script at path.
func LoadFile(path string) (*Scenario, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioMissing, fmt.Sprintf("scenario %s", path), err)
	}
	state := newLuaState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioScriptFailed, "load lua", err)
	}
	s, err := run(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadString runs a scenario script held in memory. name labels the chunk
// in error messages and names the battle when the script does not.
func LoadString(name, source string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadBuffer(state, source, name, ""); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioScriptFailed, "load lua", err)
	}
	s, err := run(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = name
	}
	return s, nil
}

func newLuaState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerBattleType(state)
	registerBattleConstructor(state)
	return state
}

func run(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioScriptFailed, "run lua", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, apperrors.New(apperrors.CodeScenarioInvalid, "scenario script must return a Battle")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	s, ok := ud.(*Scenario)
	if !ok || s == nil {
		return nil, apperrors.New(apperrors.CodeScenarioInvalid, "scenario script returned an invalid Battle")
	}
	return s, nil
}

func registerBattleType(state *lua.State) {
	lua.NewMetaTable(state, battleTypeName)
	state.NewTable()
	lua.SetFunctions(state, battleMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerBattleConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: battleNew}}, 0)
	state.SetGlobal("Battle")
}

var battleMethods = []lua.RegistryFunction{
	{Name: "seed", Function: battleSeed},
	{Name: "max_rounds", Function: battleMaxRounds},
	{Name: "player", Function: battlePlayer},
	{Name: "formation", Function: battleFormation},
	{Name: "range", Function: battleRange},
	{Name: "default_range", Function: battleDefaultRange},
	{Name: "victory", Function: battleVictory},
}

func battleNew(state *lua.State) int {
	state.PushUserData(newScenario(lua.OptString(state, 1, "")))
	lua.SetMetaTableNamed(state, battleTypeName)
	return 1
}

func battleSeed(state *lua.State) int {
	s := checkBattle(state)
	s.Seed = int64(lua.CheckInteger(state, 2))
	s.HasSeed = true
	state.PushValue(1)
	return 1
}

func battleMaxRounds(state *lua.State) int {
	s := checkBattle(state)
	n := lua.CheckInteger(state, 2)
	if n <= 0 {
		lua.ArgumentError(state, 2, "max rounds must be positive")
	}
	s.MaxRounds = n
	state.PushValue(1)
	return 1
}

func battlePlayer(state *lua.State) int {
	s := checkBattle(state)
	lua.CheckType(state, 2, lua.TypeTable)
	p, err := decodePlayer(fields(tableToMap(state, 2)))
	if err != nil {
		lua.Errorf(state, "player: %s", err.Error())
	}
	s.Players = append(s.Players, p)
	state.PushValue(1)
	return 1
}

func battleFormation(state *lua.State) int {
	s := checkBattle(state)
	lua.CheckType(state, 2, lua.TypeTable)
	spec, err := decodeFormation(fields(tableToMap(state, 2)))
	if err != nil {
		lua.Errorf(state, "formation: %s", err.Error())
	}
	s.Formations = append(s.Formations, spec)
	state.PushValue(1)
	return 1
}

func battleRange(state *lua.State) int {
	s := checkBattle(state)
	a := lua.CheckInteger(state, 2)
	b := lua.CheckInteger(state, 3)
	r, err := battle.ParseRange(lua.CheckString(state, 4))
	if err != nil {
		lua.ArgumentError(state, 4, err.Error())
	}
	s.Ranges[NewPair(a, b)] = r
	state.PushValue(1)
	return 1
}

func battleDefaultRange(state *lua.State) int {
	s := checkBattle(state)
	r, err := battle.ParseRange(lua.CheckString(state, 2))
	if err != nil {
		lua.ArgumentError(state, 2, err.Error())
	}
	s.DefaultRange = r
	state.PushValue(1)
	return 1
}

func battleVictory(state *lua.State) int {
	s := checkBattle(state)
	s.Victory = lua.CheckString(state, 2)
	state.PushValue(1)
	return 1
}

func checkBattle(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, battleTypeName)
	if s, ok := ud.(*Scenario); ok && s != nil {
		return s
	}
	lua.ArgumentError(state, 1, "battle expected")
	return nil
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		if math.Mod(value, 1) == 0 {
			return int(value)
		}
		return value
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a []any for sequences and a map[string]any otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

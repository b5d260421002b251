package battle

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateID indicates a player, formation or element id is reused.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownPlayer indicates a formation references a missing player.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrUnknownElement indicates a unit references a missing element.
	ErrUnknownElement = errors.New("unknown element")
	// ErrInvalidID indicates a non-positive id.
	ErrInvalidID = errors.New("ids must be positive")
)

// Player is one side's controller. Players on the same team are allies.
type Player struct {
	ID              int
	Name            string
	Team            int
	InitiativeBonus int
	Initiative      int
}

// RemovalCondition records why an element left play.
type RemovalCondition int

const (
	RemovalNone RemovalCondition = iota
	RemovalDestroyed
	RemovalInRetreat
)

func (c RemovalCondition) String() string {
	switch c {
	case RemovalNone:
		return "none"
	case RemovalDestroyed:
		return "destroyed"
	case RemovalInRetreat:
		return "removed in retreat"
	default:
		return fmt.Sprintf("RemovalCondition(%d)", int(c))
	}
}

// Element is an individual game-engine entity aggregated into a unit.
type Element struct {
	ID          int
	Name        string
	FormationID int
	Deployed    bool
	Removal     RemovalCondition
}

// Removed reports whether the element has left play.
func (e *Element) Removed() bool {
	return e.Removal != RemovalNone
}

// Kill attributes a destroyed element to the element credited with it.
// KillerID is zero when no attacker element survived to take credit.
type Kill struct {
	Round    int
	KillerID int
	VictimID int
}

// Outcome records why a formation left the active set.
type Outcome int

const (
	OutcomeActive Outcome = iota
	OutcomeDestroyed
	OutcomeWithdrawn
)

func (o Outcome) String() string {
	switch o {
	case OutcomeActive:
		return "active"
	case OutcomeDestroyed:
		return "destroyed"
	case OutcomeWithdrawn:
		return "withdrawn"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// State is the mutable battle state for one resolution.
type State struct {
	round      int
	players    map[int]*Player
	formations []*Formation
	index      map[int]*Formation
	outcomes   map[int]Outcome
	elements   map[int]*Element
	kills      []Kill
}

// NewState returns an empty state at round zero.
func NewState() *State {
	return &State{
		players:  make(map[int]*Player),
		index:    make(map[int]*Formation),
		outcomes: make(map[int]Outcome),
		elements: make(map[int]*Element),
	}
}

// Round returns the current round number. Zero before the first round.
func (s *State) Round() int {
	return s.round
}

// NextRound advances the round counter.
func (s *State) NextRound() int {
	s.round++
	return s.round
}

// AddPlayer registers a player.
func (s *State) AddPlayer(player Player) error {
	if player.ID <= 0 {
		return fmt.Errorf("player %d: %w", player.ID, ErrInvalidID)
	}
	if _, ok := s.players[player.ID]; ok {
		return fmt.Errorf("player %d: %w", player.ID, ErrDuplicateID)
	}
	p := player
	s.players[p.ID] = &p
	return nil
}

// Player returns the player with id.
func (s *State) Player(id int) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Players returns every player ordered by id.
func (s *State) Players() []*Player {
	players := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// AddElement registers an element. The owning formation is set when the
// formation is added.
func (s *State) AddElement(element Element) error {
	if element.ID <= 0 {
		return fmt.Errorf("element %d: %w", element.ID, ErrInvalidID)
	}
	if _, ok := s.elements[element.ID]; ok {
		return fmt.Errorf("element %d: %w", element.ID, ErrDuplicateID)
	}
	e := element
	s.elements[e.ID] = &e
	return nil
}

// Element returns the element with id.
func (s *State) Element(id int) (*Element, bool) {
	e, ok := s.elements[id]
	return e, ok
}

// AddFormation registers a formation, binding its units' elements to it.
func (s *State) AddFormation(f *Formation) error {
	if f == nil {
		return errors.New("formation is required")
	}
	if f.ID <= 0 {
		return fmt.Errorf("formation %d: %w", f.ID, ErrInvalidID)
	}
	if _, ok := s.outcomes[f.ID]; ok {
		return fmt.Errorf("formation %d: %w", f.ID, ErrDuplicateID)
	}
	if _, ok := s.players[f.PlayerID]; !ok {
		return fmt.Errorf("formation %d player %d: %w", f.ID, f.PlayerID, ErrUnknownPlayer)
	}
	for _, unit := range f.Units {
		for _, id := range unit.ElementIDs {
			if _, ok := s.elements[id]; !ok {
				return fmt.Errorf("formation %d element %d: %w", f.ID, id, ErrUnknownElement)
			}
		}
	}
	for _, unit := range f.Units {
		for _, id := range unit.ElementIDs {
			s.elements[id].FormationID = f.ID
		}
	}
	s.formations = append(s.formations, f)
	s.index[f.ID] = f
	s.outcomes[f.ID] = OutcomeActive
	return nil
}

// Formation returns the active formation with id.
func (s *State) Formation(id int) (*Formation, bool) {
	f, ok := s.index[id]
	if !ok || s.outcomes[id] != OutcomeActive {
		return nil, false
	}
	return f, true
}

// Formations returns the active formations in insertion order.
func (s *State) Formations() []*Formation {
	active := make([]*Formation, 0, len(s.formations))
	for _, f := range s.formations {
		if s.outcomes[f.ID] == OutcomeActive {
			active = append(active, f)
		}
	}
	return active
}

// AllFormations returns every formation ever added, active or not.
func (s *State) AllFormations() []*Formation {
	return append([]*Formation(nil), s.formations...)
}

// Outcome reports whether the formation is active, destroyed or withdrawn.
func (s *State) Outcome(id int) (Outcome, bool) {
	o, ok := s.outcomes[id]
	return o, ok
}

// RemoveFormation moves an active formation out of the active set.
func (s *State) RemoveFormation(id int, outcome Outcome) bool {
	if outcome == OutcomeActive {
		return false
	}
	if current, ok := s.outcomes[id]; !ok || current != OutcomeActive {
		return false
	}
	s.outcomes[id] = outcome
	return true
}

// Team returns the team of the formation's player.
func (s *State) Team(f *Formation) int {
	if p, ok := s.players[f.PlayerID]; ok {
		return p.Team
	}
	return 0
}

// Enemies returns active formations on a different team than f.
func (s *State) Enemies(f *Formation) []*Formation {
	team := s.Team(f)
	var enemies []*Formation
	for _, other := range s.Formations() {
		if s.Team(other) != team {
			enemies = append(enemies, other)
		}
	}
	return enemies
}

// ActiveTeams returns the sorted teams that still have active formations.
func (s *State) ActiveTeams() []int {
	seen := make(map[int]bool)
	var teams []int
	for _, f := range s.Formations() {
		team := s.Team(f)
		if !seen[team] {
			seen[team] = true
			teams = append(teams, team)
		}
	}
	sort.Ints(teams)
	return teams
}

// RecordKill appends a kill attribution.
func (s *State) RecordKill(kill Kill) {
	s.kills = append(s.kills, kill)
}

// Kills returns the kill attributions in the order they happened.
func (s *State) Kills() []Kill {
	return append([]Kill(nil), s.kills...)
}

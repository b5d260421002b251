package battle

// Phase is one discrete stage of a combat round.
type Phase int

const (
	PhaseStartingScenario Phase = iota
	PhaseInitiative
	PhaseDeployment
	PhaseSBFDetection
	PhaseMovement
	PhaseFiring
	PhaseEnd
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseStartingScenario:
		return "Starting Scenario"
	case PhaseInitiative:
		return "Initiative"
	case PhaseDeployment:
		return "Deployment"
	case PhaseSBFDetection:
		return "Detection"
	case PhaseMovement:
		return "Movement"
	case PhaseFiring:
		return "Firing"
	case PhaseEnd:
		return "End"
	case PhaseVictory:
		return "Victory"
	default:
		return "Unknown"
	}
}

// HasTurns reports whether players take turns during the phase.
func (p Phase) HasTurns() bool {
	switch p {
	case PhaseDeployment, PhaseMovement, PhaseFiring, PhaseEnd:
		return true
	default:
		return false
	}
}

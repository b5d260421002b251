package action

import (
	"errors"
	"fmt"
)

// ErrIllegalAction indicates an action was refused at submission.
var ErrIllegalAction = errors.New("illegal action")

// Queue collects submitted actions until the phase that resolves them.
type Queue struct {
	pending []Action
	targets map[int]map[int]struct{}
}

// Submit enqueues a, refusing structurally invalid actions.
func (q *Queue) Submit(a Action) error {
	if a == nil {
		return fmt.Errorf("%w: nil action", ErrIllegalAction)
	}
	if a.Illegal() {
		return fmt.Errorf("%w: %s by formation %d", ErrIllegalAction, a.Kind(), a.EntityID())
	}
	q.pending = append(q.pending, a)
	if attack, ok := a.(Attack); ok {
		if q.targets == nil {
			q.targets = make(map[int]map[int]struct{})
		}
		if q.targets[attack.Attacker] == nil {
			q.targets[attack.Attacker] = make(map[int]struct{})
		}
		q.targets[attack.Attacker][attack.Target] = struct{}{}
	}
	return nil
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Drain returns and clears the pending actions in submission order.
func (q *Queue) Drain() []Action {
	drained := q.pending
	q.pending = nil
	return drained
}

// DistinctTargets returns how many different formations attacker has
// declared attacks against this round.
func (q *Queue) DistinctTargets(attacker int) int {
	return len(q.targets[attacker])
}

// ResetRound forgets the round's declared attack targets.
func (q *Queue) ResetRound() {
	q.targets = nil
}

// Package check compares dice totals against target numbers.
package check

// MeetsTarget returns true if roll >= target. Every 2d6 check in combat
// resolution succeeds on meeting or exceeding its target number.
func MeetsTarget(roll, target int) bool {
	return roll >= target
}

// Margin calculates the margin of success or failure.
// Positive values indicate success, negative indicate failure.
func Margin(roll, target int) int {
	return roll - target
}

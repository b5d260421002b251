// Package battle holds the in-memory combat state that action handlers read
// and mutate: players, formations, their units and the game-engine elements
// those units aggregate.
//
// Lookups return an explicit found flag. A formation that was destroyed or
// withdrew earlier in the round is simply absent, and callers treat that as a
// normal outcome rather than a failure.
package battle

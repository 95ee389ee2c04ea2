// Package app drives maze generation interactively on a terminal or headless.
package app

// State represents the current driver state.
type State int

const (
	// StateRunning advances one step per tick.
	StateRunning State = iota
	// StatePaused holds generation until resumed or single-stepped.
	StatePaused
	// StateDone means the maze is complete and can be exported.
	StateDone
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

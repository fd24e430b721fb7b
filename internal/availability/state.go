package availability

import "strings"

// State is the persisted availability token
type State string

const (
	NoRoom State = "no_room"
	Room   State = "room"
)

// ParseState converts a stored token into a State.
// Empty or unrecognized tokens are treated as NoRoom.
func ParseState(token string) State {
	switch State(strings.TrimSpace(token)) {
	case Room:
		return Room
	default:
		return NoRoom
	}
}

// String returns the token written to the state file
func (s State) String() string {
	if s == "" {
		return string(NoRoom)
	}
	return string(s)
}

// Signal is the result of one fetch and classify cycle
type Signal struct {
	Available bool   `json:"available"`
	Details   string `json:"details,omitempty"`
}

// Observed maps a signal onto the state it would persist
func (s Signal) Observed() State {
	if s.Available {
		return Room
	}
	return NoRoom
}

package issue

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of an issue. It is stored on disk as its
// lowercase token.
type State string

const (
	StateNew        State = "new"
	StateBacklog    State = "backlog"
	StateBlocked    State = "blocked"
	StateInProgress State = "inprogress"
	StateDone       State = "done"
	StateWontDo     State = "wontdo"
)

// States lists every state, in the order lists are displayed.
var States = []State{
	StateInProgress,
	StateBlocked,
	StateBacklog,
	StateNew,
	StateDone,
	StateWontDo,
}

// OpenStates are the states an issue can be actively worked from; they
// form the default filter set.
var OpenStates = []State{StateNew, StateBacklog, StateBlocked, StateInProgress}

// ParseState converts a stored or user-supplied token into a State.
// Matching is case-insensitive; the six known tokens are the only valid
// values.
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return StateNew, nil
	case "backlog":
		return StateBacklog, nil
	case "blocked":
		return StateBlocked, nil
	case "inprogress":
		return StateInProgress, nil
	case "done":
		return StateDone, nil
	case "wontdo":
		return StateWontDo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownState, s)
	}
}

func (s State) String() string {
	return string(s)
}

// Package filter implements the small query language used to narrow
// issue listings.
//
// A filter is built from clauses of the form name=value[,value...].
// Later clauses override earlier ones for the same name instead of
// accumulating. Recognized names are state, assignee, tag and
// done-time.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/highlab/entomologist/internal/issue"
)

var (
	// ErrBadClause is returned for a token with no "=" or with an
	// unparseable value.
	ErrBadClause = errors.New("malformed filter clause")

	// ErrUnknownClause is returned for a clause name that is not one of
	// state, assignee, tag or done-time.
	ErrUnknownClause = errors.New("unknown filter clause")
)

// Filter selects a subset of issues. The zero value matches nothing
// useful; construct with New, then optionally Parse clauses into it.
type Filter struct {
	// States is the set of states to include.
	States []issue.State

	// Assignees restricts to these assignees when non-empty. The empty
	// string stands for "unassigned".
	Assignees []string

	// IncludeTags requires at least one of these tags when non-empty.
	IncludeTags []string

	// ExcludeTags rejects any issue carrying one of these tags.
	ExcludeTags []string

	// DoneAfter and DoneBefore bound the done time, inclusive. A zero
	// value means unbounded on that side. Issues without a done time
	// always pass.
	DoneAfter  time.Time
	DoneBefore time.Time
}

// New returns a filter matching all issues in an open state.
func New() *Filter {
	return &Filter{
		States: append([]issue.State(nil), issue.OpenStates...),
	}
}

// Parse applies one clause to the filter. A clause replaces whatever an
// earlier clause of the same name set.
func (f *Filter) Parse(clause string) error {
	name, value, ok := strings.Cut(clause, "=")
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadClause, clause)
	}

	switch name {
	case "state":
		var states []issue.State
		for _, token := range strings.Split(value, ",") {
			state, err := issue.ParseState(token)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrBadClause, clause, err)
			}
			states = append(states, state)
		}
		f.States = states

	case "assignee":
		f.Assignees = strings.Split(value, ",")

	case "tag":
		var include, exclude []string
		for _, token := range strings.Split(value, ",") {
			switch {
			case token == "" || token == "-":
				return fmt.Errorf("%w: %q", ErrBadClause, clause)
			case token[0] == '-':
				exclude = append(exclude, token[1:])
			default:
				include = append(include, token)
			}
		}
		f.IncludeTags = include
		f.ExcludeTags = exclude

	case "done-time":
		start, end, ok := strings.Cut(value, "..")
		if !ok {
			return fmt.Errorf("%w: %q: want START..END", ErrBadClause, clause)
		}
		f.DoneAfter = time.Time{}
		f.DoneBefore = time.Time{}
		if start != "" {
			ts, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrBadClause, clause, err)
			}
			f.DoneAfter = ts
		}
		if end != "" {
			ts, err := time.Parse(time.RFC3339, end)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrBadClause, clause, err)
			}
			f.DoneBefore = ts
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownClause, name)
	}

	return nil
}

// Parse builds a filter from clauses, starting from the open-state
// default.
func Parse(clauses []string) (*Filter, error) {
	f := New()
	for _, clause := range clauses {
		if err := f.Parse(clause); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Match reports whether the issue passes every constraint.
func (f *Filter) Match(iss *issue.Issue) bool {
	if !f.matchState(iss.State) {
		return false
	}
	if len(f.Assignees) > 0 && !contains(f.Assignees, iss.Assignee) {
		return false
	}
	if len(f.IncludeTags) > 0 && !hasAny(iss, f.IncludeTags) {
		return false
	}
	if hasAny(iss, f.ExcludeTags) {
		return false
	}
	return f.matchDoneTime(iss.DoneTime)
}

func (f *Filter) matchState(state issue.State) bool {
	for _, s := range f.States {
		if s == state {
			return true
		}
	}
	return false
}

// matchDoneTime checks the done-time bounds. An issue that was never
// done passes vacuously.
func (f *Filter) matchDoneTime(done time.Time) bool {
	if done.IsZero() {
		return true
	}
	if !f.DoneAfter.IsZero() && done.Before(f.DoneAfter) {
		return false
	}
	if !f.DoneBefore.IsZero() && done.After(f.DoneBefore) {
		return false
	}
	return true
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func hasAny(iss *issue.Issue, tags []string) bool {
	for _, tag := range tags {
		if iss.HasTag(tag) {
			return true
		}
	}
	return false
}

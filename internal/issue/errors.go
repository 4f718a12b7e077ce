package issue

import "errors"

// Domain errors for record mutations and parsing. Checked with
// errors.Is; the wrapping error carries the offending value.
var (
	// ErrMissingDescription is returned when a record directory has no
	// description file. The description is the one mandatory field.
	ErrMissingDescription = errors.New("record has no description")

	// ErrEmptyDescription is returned when a supplied or edited
	// description is empty or whitespace-only. For editor round-trips
	// this means the user cancelled.
	ErrEmptyDescription = errors.New("supplied description is empty")

	// ErrUnknownState is returned when a state token is not one of the
	// six known values.
	ErrUnknownState = errors.New("unknown state")

	// ErrTagNotFound is returned when removing a tag the issue does not
	// have.
	ErrTagNotFound = errors.New("tag not found")

	// ErrSelfDependency is returned when an issue is asked to depend on
	// itself.
	ErrSelfDependency = errors.New("issue cannot depend on itself")

	// ErrDuplicateDependency is returned when the dependency is already
	// recorded.
	ErrDuplicateDependency = errors.New("dependency already exists")
)

package vcs

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by VCS operations.
//
// These can be checked with errors.Is:
//
//	if errors.Is(err, vcs.ErrNotInRepo) {
//	    // outside any git repository
//	}
var (
	// ErrNotInRepo is returned when the operation requires being inside
	// a git repository but none was found.
	ErrNotInRepo = errors.New("not in a git repository")

	// ErrNoHistory is returned when a provenance query finds no commit
	// touching the requested path.
	ErrNoHistory = errors.New("no commit history for path")
)

// OpError reports a git invocation that exited non-zero. It carries the
// full argument list and the combined stdout/stderr so the failure can
// be diagnosed by a human without re-running the command.
type OpError struct {
	// Args are the arguments git was invoked with.
	Args []string

	// Output is the captured combined stdout and stderr.
	Output string

	// Err is the underlying process error.
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("git %s failed: %v\n%s", strings.Join(e.Args, " "), e.Err, e.Output)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// FetchError reports a failed fetch. It is distinct from OpError so
// callers can tell "couldn't reach the remote" apart from other git
// failures during a sync.
type FetchError struct {
	// Remote is the remote name the fetch targeted.
	Remote string

	// Err is the underlying operation error.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from remote %q failed: %v", e.Remote, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

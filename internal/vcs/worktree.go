package vcs

import (
	"fmt"
	"os"
)

// Worktree is an owned, disposable checkout of one branch under a fresh
// temporary directory. Its lifetime bounds the lifetime of anything
// built on top of it: callers must Close it on every exit path, because
// a leaked checkout leaves a stale entry in git's worktree registry and
// a directory on disk for every subsequent invocation to trip over.
type Worktree struct {
	git    *Git
	path   string
	closed bool
}

// AddWorktree checks out branch into a fresh temporary directory and
// returns the owning handle. A detached checkout has no branch pointer,
// so commits made in it never move the branch ref; use detached for
// read-only access.
func (g *Git) AddWorktree(branch string, detached bool) (*Worktree, error) {
	path, err := os.MkdirTemp("", "entomologist-worktree-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	// An attached add of a branch that only exists on one remote gets
	// git's checkout-style DWIM (a local tracking branch is created).
	// A detached add gets no such resolution, so point it at the
	// remote-tracking ref ourselves. This is how a fresh clone reads
	// the data branch before ever writing to it.
	target := branch
	if detached && !g.localBranchExists(branch) {
		if ref, ok := g.remoteTrackingRef(branch); ok {
			target = ref
		}
	}

	args := []string{"worktree", "add"}
	if detached {
		args = append(args, "--detach")
	}
	args = append(args, path, target)

	if _, err := g.run("", args...); err != nil {
		os.RemoveAll(path)
		return nil, err
	}

	return &Worktree{git: g, path: path}, nil
}

// Path returns the checkout's directory.
func (w *Worktree) Path() string {
	return w.path
}

// Close removes the checkout from the filesystem and prunes it from
// git's worktree registry. Close is idempotent; only the first call
// does any work.
//
// The remove is deliberately not forced: a checkout holding
// uncommitted work (a merge conflict mid-resolution) survives Close,
// so the user can finish resolving in the directory the sync error
// pointed them at.
func (w *Worktree) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if _, err := w.git.run("", "worktree", "remove", w.path); err != nil {
		if _, statErr := os.Stat(w.path); statErr == nil {
			// git refused because the checkout is dirty; leave it and
			// its registry entry in place.
			return nil
		}
		// The directory is already gone (removed out from under us);
		// fall through and prune the stale registry entry.
	}

	_, err := w.git.run("", "worktree", "prune")
	return err
}

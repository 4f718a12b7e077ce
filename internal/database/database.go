// Package database resolves an issues database source to a concrete
// directory a store can be loaded from.
//
// A database is backed either by an explicit directory or by a branch.
// Branch-backed access checks the branch out into a private temporary
// worktree owned by the Database; the worktree is torn down on Close,
// on every path. Directory-backed access has nothing to tear down.
package database

import (
	"errors"
	"fmt"

	"github.com/highlab/entomologist/internal/issues"
	"github.com/highlab/entomologist/internal/vcs"
)

// DefaultBranch is the branch issues live on when the caller names
// neither a directory nor a branch.
const DefaultBranch = "entomologist-data"

// ErrAmbiguousSource is returned when both a directory and a branch are
// given.
var ErrAmbiguousSource = errors.New("specify an issues directory or an issues branch, not both")

// Access selects how a branch source is checked out. Read-only access
// uses a detached worktree so the branch ref stays untouched;
// read-write attaches the worktree to the branch so commits land on it.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// Source names where the issues live. At most one field may be set;
// with neither set, DefaultBranch is used.
type Source struct {
	Dir    string
	Branch string
}

// Database is a fat path: the directory holding the issue records,
// plus the worktree that backs it when the source was a branch.
type Database struct {
	dir      string
	branch   string
	git      *vcs.Git
	worktree *vcs.Worktree
}

// Open resolves src to a Database.
//
// A directory source is used as-is. A branch source is first created
// as an orphan branch if it does not exist yet, then checked out into
// a fresh private worktree.
func Open(g *vcs.Git, src Source, access Access) (*Database, error) {
	if src.Dir != "" && src.Branch != "" {
		return nil, ErrAmbiguousSource
	}

	if src.Dir != "" {
		return &Database{dir: src.Dir, git: g}, nil
	}

	branch := src.Branch
	if branch == "" {
		branch = DefaultBranch
	}

	if !g.BranchExists(branch) {
		if err := g.CreateOrphanBranch(branch); err != nil {
			return nil, fmt.Errorf("failed to create issues branch %q: %w", branch, err)
		}
	}

	wt, err := g.AddWorktree(branch, access == ReadOnly)
	if err != nil {
		return nil, err
	}

	return &Database{
		dir:      wt.Path(),
		branch:   branch,
		git:      g,
		worktree: wt,
	}, nil
}

// Close tears down the backing worktree, if any. Safe to call more
// than once and on directory-backed databases.
func (db *Database) Close() error {
	if db.worktree == nil {
		return nil
	}
	return db.worktree.Close()
}

// Dir returns the directory the issue records live in.
func (db *Database) Dir() string {
	return db.dir
}

// Branch returns the backing branch name, or "" for a directory-backed
// database.
func (db *Database) Branch() string {
	return db.branch
}

// BranchBacked reports whether the database came from a branch source.
func (db *Database) BranchBacked() bool {
	return db.worktree != nil
}

// Git returns the underlying repository handle.
func (db *Database) Git() *vcs.Git {
	return db.git
}

// Load reads the issue store out of the database directory.
func (db *Database) Load() (*issues.Store, error) {
	return issues.Load(db.git, db.dir)
}

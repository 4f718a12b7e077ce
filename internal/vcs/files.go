package vcs

import (
	"path/filepath"
	"strings"
)

// Stage stages path (recursively, including deletions) for the next
// commit in the worktree containing it.
func (g *Git) Stage(path string) error {
	dir := filepath.Dir(path)
	_, err := g.run(dir, "add", "-A", "--", filepath.Base(path))
	return err
}

// IsDirty returns true if dir contains any staged or unstaged change or
// any new untracked file. Paths outside dir are not considered, so
// untracked noise elsewhere in the checkout never triggers a commit.
func (g *Git) IsDirty(dir string) (bool, error) {
	output, err := g.run(dir, "status", "--porcelain", "--", ".")
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(output))) > 0, nil
}

// Commit records staged changes under dir with the given message.
func (g *Git) Commit(dir, message string) error {
	_, err := g.run(dir, "commit", "-m", message, "--", ".")
	return err
}

// Restore discards uncommitted changes to one path, restoring the
// committed content.
func (g *Git) Restore(path string) error {
	dir := filepath.Dir(path)
	_, err := g.run(dir, "restore", "--staged", "--worktree", "--", filepath.Base(path))
	return err
}

package vcs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// orphanBranchReadme is committed as the first file on a freshly created
// data branch, so the branch is never empty and its purpose is
// self-describing to anyone who checks it out by hand.
const orphanBranchReadme = "This branch is used by entomologist to track issues.\n"

// BranchExists returns true if the named ref exists, locally or as a
// remote-tracking ref.
func (g *Git) BranchExists(name string) bool {
	_, err := g.run("", "show-ref", "--quiet", name)
	return err == nil
}

// RemoteBranchExists returns true if the remote-tracking ref for
// remote/name exists. Only meaningful after a fetch.
func (g *Git) RemoteBranchExists(remote, name string) bool {
	_, err := g.run("", "show-ref", "--verify", "--quiet", "refs/remotes/"+remote+"/"+name)
	return err == nil
}

// localBranchExists returns true only for a local branch, ignoring
// remote-tracking refs.
func (g *Git) localBranchExists(name string) bool {
	_, err := g.run("", "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// remoteTrackingRef returns the remote-tracking ref for name (for
// example "origin/issues") when exactly one remote has the branch.
// This is the fresh-clone case: the data branch has been fetched but
// never checked out locally.
func (g *Git) remoteTrackingRef(name string) (string, bool) {
	output, err := g.run("", "for-each-ref", "--format=%(refname:short)", "refs/remotes/*/"+name)
	if err != nil {
		return "", false
	}
	refs := strings.Fields(strings.TrimSpace(string(output)))
	if len(refs) != 1 {
		return "", false
	}
	return refs[0], true
}

// RemoveBranch force-deletes the named local branch.
func (g *Git) RemoveBranch(name string) error {
	_, err := g.run("", "branch", "-D", name)
	return err
}

// CreateOrphanBranch creates a new branch with no parent history, seeds
// it with a README marker file, and commits. The temporary checkout used
// to build the first commit is removed and pruned before returning.
func (g *Git) CreateOrphanBranch(name string) error {
	tmpDir, err := os.MkdirTemp("", "entomologist-orphan-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		os.RemoveAll(tmpDir)
		g.run("", "worktree", "prune")
	}()

	if _, err := g.run("", "worktree", "add", "--orphan", "-b", name, tmpDir); err != nil {
		return err
	}

	readme := filepath.Join(tmpDir, "README.md")
	if err := os.WriteFile(readme, []byte(orphanBranchReadme), 0644); err != nil {
		return fmt.Errorf("failed to write README.md: %w", err)
	}

	if _, err := g.run(tmpDir, "add", "README.md"); err != nil {
		return err
	}

	if _, err := g.run(tmpDir, "commit", "-m", "create entomologist issue branch"); err != nil {
		return err
	}

	if _, err := g.run("", "worktree", "remove", "--force", tmpDir); err != nil {
		// Deferred RemoveAll and prune clean up what git could not.
		return err
	}

	return nil
}

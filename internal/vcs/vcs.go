// Package vcs wraps the external git binary.
//
// It is the only package in entomologist that invokes git. Every
// operation maps to one external invocation; a non-zero exit status is
// surfaced as an *OpError carrying the captured combined output, so the
// caller can show the raw diagnostics to a human. There are no retries:
// git failures are fatal to the operation that triggered them.
//
// The package provides:
//   - repository discovery (New)
//   - branch existence and orphan-branch bootstrap
//   - disposable worktree checkouts (Worktree)
//   - stage/commit/status/restore for the commit-per-mutation protocol
//   - commit-history provenance queries (oldest author and timestamp)
//   - fetch/merge/push for the sync protocol
package vcs

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Git is a handle on one git repository. All operations run the git
// binary with the working directory set inside that repository.
type Git struct {
	// repoRoot is the repository root directory path
	repoRoot string

	// gitDir is the .git directory path (may be a file for worktrees)
	gitDir string
}

// New creates a Git handle for the repository containing path.
// Returns ErrNotInRepo if path is not inside a git repository.
func New(path string) (*Git, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	// One rev-parse call gets both pieces of repository info.
	cmd := exec.Command("git", "rev-parse", "--git-dir", "--show-toplevel")
	cmd.Dir = absPath

	output, err := cmd.Output()
	if err != nil {
		return nil, ErrNotInRepo
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("unexpected git rev-parse output: got %d lines, expected 2", len(lines))
	}

	gitDir := strings.TrimSpace(lines[0])
	repoRoot := strings.TrimSpace(lines[1])

	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(absPath, gitDir)
	}

	return &Git{
		repoRoot: normalizePath(repoRoot),
		gitDir:   gitDir,
	}, nil
}

// RepoRoot returns the repository root directory path.
func (g *Git) RepoRoot() string {
	return g.repoRoot
}

// normalizePath resolves symlinks and normalizes separators so paths
// compare cleanly (handles /var -> /private/var on macOS).
func normalizePath(path string) string {
	path = filepath.FromSlash(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path
}

// run executes git with the given arguments in dir (repository root if
// dir is empty) and returns the combined output. A non-zero exit status
// is reported as an *OpError with the output attached.
func (g *Git) run(dir string, args ...string) ([]byte, error) {
	if dir == "" {
		dir = g.repoRoot
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, &OpError{
			Args:   args,
			Output: string(output),
			Err:    err,
		}
	}

	return output, nil
}

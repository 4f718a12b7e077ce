package vcs

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// OldestCommit returns the author ("Name <email>") and author timestamp
// of the earliest commit touching path. Returns ErrNoHistory if no
// commit touches the path (for example a record that was written but
// never committed).
func (g *Git) OldestCommit(path string) (string, time.Time, error) {
	dir := filepath.Dir(path)

	// %aI is strict ISO-8601, which is RFC 3339 for our purposes.
	output, err := g.run(dir, "log", "--reverse", "--format=%aN <%aE>%x09%aI", "--", filepath.Base(path))
	if err != nil {
		return "", time.Time{}, err
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrNoHistory, path)
	}

	author, stamp, found := strings.Cut(lines[0], "\t")
	if !found {
		return "", time.Time{}, fmt.Errorf("unexpected git log output: %q", lines[0])
	}

	ts, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse commit timestamp %q: %w", stamp, err)
	}

	return author, ts, nil
}

// LogRange returns one "<hash> <subject>" line per commit reachable
// from the range spec (e.g. "HEAD..origin/branch"), newest first.
// An empty slice means the range is empty.
func (g *Git) LogRange(dir, rangeSpec string) ([]string, error) {
	output, err := g.run(dir, "log", "--format=%h %s", rangeSpec)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

// Package sync exchanges issue data with a remote: fetch, preview the
// divergence, merge the remote branch, push the result back.
//
// Every step is fatal on failure. A merge conflict leaves the working
// tree exactly as git left it so a human can resolve it in place; a
// failed push leaves local state already merged, and re-running sync
// later is the recovery.
package sync

import (
	"errors"
	"fmt"
	"io"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/logging"
)

// ErrDirectoryBacked is returned when the database was opened against
// an explicit directory. Only branch-backed databases have an upstream
// to sync with.
var ErrDirectoryBacked = errors.New("sync operates on a branch, not an issues directory")

var debugLog = logging.Debug("sync")

// Sync runs the full protocol against the named remote, writing the
// human-readable divergence preview to out.
func Sync(db *database.Database, remote string, out io.Writer) error {
	if !db.BranchBacked() {
		return ErrDirectoryBacked
	}

	g := db.Git()
	branch := db.Branch()
	dir := db.Dir()

	if err := g.Fetch(dir, remote); err != nil {
		return err
	}

	remoteRef := remote + "/" + branch

	// A remote that has never seen the data branch has nothing to
	// preview or merge; the push below introduces the branch to it.
	if g.RemoteBranchExists(remote, branch) {
		if err := preview(db, remoteRef, out); err != nil {
			return err
		}
		if err := g.Merge(dir, remoteRef); err != nil {
			return fmt.Errorf("merge of %s failed, resolve by hand in %s: %w", remoteRef, dir, err)
		}
	} else {
		debugLog.Printf("remote %s has no %s branch yet, skipping merge", remote, branch)
	}

	if err := g.Push(dir, remote, branch); err != nil {
		return fmt.Errorf("push to %s failed, re-run sync after resolving: %w", remote, err)
	}

	return nil
}

// preview prints the commits unique to each side of the upcoming
// merge. It is purely informational, but a failing log query aborts
// the sync like any other step.
func preview(db *database.Database, remoteRef string, out io.Writer) error {
	g := db.Git()
	dir := db.Dir()

	incoming, err := g.LogRange(dir, "HEAD.."+remoteRef)
	if err != nil {
		return err
	}
	outgoing, err := g.LogRange(dir, remoteRef+"..HEAD")
	if err != nil {
		return err
	}

	if len(incoming) > 0 {
		fmt.Fprintf(out, "incoming from %s:\n", remoteRef)
		for _, line := range incoming {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	if len(outgoing) > 0 {
		fmt.Fprintf(out, "outgoing to %s:\n", remoteRef)
		for _, line := range outgoing {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	return nil
}

package vcs

// Fetch updates remote-tracking refs from the named remote. The command
// runs in dir so it applies to the branch checked out there. A failure
// is reported as a *FetchError naming the remote.
func (g *Git) Fetch(dir, remote string) error {
	if _, err := g.run(dir, "fetch", remote); err != nil {
		return &FetchError{Remote: remote, Err: err}
	}
	return nil
}

// Merge merges remoteRef into the branch checked out in dir. On
// conflict the working tree is left exactly as git left it; resolving
// is up to a human.
func (g *Git) Merge(dir, remoteRef string) error {
	_, err := g.run(dir, "merge", remoteRef)
	return err
}

// Push pushes branch to the named remote. The remote rejects the push
// if it has moved since the last fetch; that is surfaced as the
// operation error, never retried.
func (g *Git) Push(dir, remote, branch string) error {
	_, err := g.run(dir, "push", remote, branch)
	return err
}

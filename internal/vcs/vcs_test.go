package vcs

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestRepo creates a temporary git repository for testing
func setupTestRepo(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	cmd := exec.Command("git", "init", "-b", "main")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to init git repo: %v", err)
	}

	// Configure git user for commits
	exec.Command("git", "-C", tmpDir, "config", "user.name", "Test User").Run()
	exec.Command("git", "-C", tmpDir, "config", "user.email", "test@example.com").Run()

	return tmpDir
}

// commitFile writes a file and commits it with the given message
func commitFile(t *testing.T, repo, name, content, message string) {
	t.Helper()

	path := filepath.Join(repo, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	exec.Command("git", "-C", repo, "add", name).Run()
	if err := exec.Command("git", "-C", repo, "commit", "-m", message).Run(); err != nil {
		t.Fatalf("failed to commit %s: %v", name, err)
	}
}

func TestNew(t *testing.T) {
	repo := setupTestRepo(t)

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	want, _ := filepath.EvalSymlinks(repo)
	got, _ := filepath.EvalSymlinks(g.RepoRoot())
	if got != want {
		t.Errorf("RepoRoot() = %v, want %v", got, want)
	}
}

func TestNewOutsideRepo(t *testing.T) {
	_, err := New(t.TempDir())
	if !errors.Is(err, ErrNotInRepo) {
		t.Errorf("New() outside repo = %v, want ErrNotInRepo", err)
	}
}

func TestBranchExists(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if !g.BranchExists("main") {
		t.Error("BranchExists(main) = false, want true")
	}
	if g.BranchExists("no-such-branch") {
		t.Error("BranchExists(no-such-branch) = true, want false")
	}
}

func TestCreateOrphanBranch(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := g.CreateOrphanBranch("issue-data"); err != nil {
		t.Fatalf("CreateOrphanBranch() failed: %v", err)
	}

	if !g.BranchExists("issue-data") {
		t.Error("BranchExists(issue-data) = false after create, want true")
	}

	// The orphan branch carries only the README marker, no shared history.
	out, err := exec.Command("git", "-C", repo, "ls-tree", "--name-only", "issue-data").Output()
	if err != nil {
		t.Fatalf("git ls-tree failed: %v", err)
	}
	if strings.TrimSpace(string(out)) != "README.md" {
		t.Errorf("orphan branch tree = %q, want README.md only", strings.TrimSpace(string(out)))
	}

	count, err := exec.Command("git", "-C", repo, "rev-list", "--count", "issue-data").Output()
	if err != nil {
		t.Fatalf("git rev-list failed: %v", err)
	}
	if strings.TrimSpace(string(count)) != "1" {
		t.Errorf("orphan branch has %s commits, want 1", strings.TrimSpace(string(count)))
	}

	if err := g.RemoveBranch("issue-data"); err != nil {
		t.Errorf("RemoveBranch() failed: %v", err)
	}
	if g.BranchExists("issue-data") {
		t.Error("BranchExists(issue-data) = true after remove, want false")
	}
}

func TestWorktreeLifecycle(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := g.CreateOrphanBranch("issue-data"); err != nil {
		t.Fatalf("CreateOrphanBranch() failed: %v", err)
	}

	wt, err := g.AddWorktree("issue-data", false)
	if err != nil {
		t.Fatalf("AddWorktree() failed: %v", err)
	}

	path := wt.Path()
	if _, err := os.Stat(filepath.Join(path, "README.md")); err != nil {
		t.Errorf("worktree checkout missing README.md: %v", err)
	}

	if err := wt.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("worktree path %s still exists after Close()", path)
	}

	// The registry entry must be gone too.
	out, _ := exec.Command("git", "-C", repo, "worktree", "list", "--porcelain").Output()
	if strings.Contains(string(out), path) {
		t.Errorf("worktree %s still registered after Close()", path)
	}

	// Close is idempotent.
	if err := wt.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestWorktreeDetached(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	wt, err := g.AddWorktree("main", true)
	if err != nil {
		t.Fatalf("AddWorktree(detached) failed: %v", err)
	}
	defer wt.Close()

	out, err := exec.Command("git", "-C", wt.Path(), "symbolic-ref", "-q", "HEAD").Output()
	if err == nil && strings.TrimSpace(string(out)) != "" {
		t.Errorf("detached worktree HEAD = %q, want detached", strings.TrimSpace(string(out)))
	}
}

func TestWorktreeDetachedFromRemoteTrackingRef(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := g.CreateOrphanBranch("issue-data"); err != nil {
		t.Fatalf("CreateOrphanBranch() failed: %v", err)
	}

	// Leave the branch reachable only as a remote-tracking ref, the
	// state a fresh clone is in before anyone checks the branch out.
	sha, err := exec.Command("git", "-C", repo, "rev-parse", "issue-data").Output()
	if err != nil {
		t.Fatalf("git rev-parse failed: %v", err)
	}
	ref := "refs/remotes/origin/issue-data"
	if err := exec.Command("git", "-C", repo, "update-ref", ref, strings.TrimSpace(string(sha))).Run(); err != nil {
		t.Fatalf("git update-ref failed: %v", err)
	}
	if err := g.RemoveBranch("issue-data"); err != nil {
		t.Fatalf("RemoveBranch() failed: %v", err)
	}

	wt, err := g.AddWorktree("issue-data", true)
	if err != nil {
		t.Fatalf("AddWorktree(detached) from remote-tracking ref failed: %v", err)
	}
	defer wt.Close()

	if _, err := os.Stat(filepath.Join(wt.Path(), "README.md")); err != nil {
		t.Errorf("detached checkout missing README.md: %v", err)
	}
}

func TestCloseKeepsDirtyWorktree(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := g.CreateOrphanBranch("issue-data"); err != nil {
		t.Fatalf("CreateOrphanBranch() failed: %v", err)
	}

	wt, err := g.AddWorktree("issue-data", false)
	if err != nil {
		t.Fatalf("AddWorktree() failed: %v", err)
	}

	// Uncommitted work, as left behind by a conflicted merge.
	dirtyFile := filepath.Join(wt.Path(), "README.md")
	if err := os.WriteFile(dirtyFile, []byte("<<<<<<< unresolved\n"), 0644); err != nil {
		t.Fatalf("failed to dirty the checkout: %v", err)
	}

	if err := wt.Close(); err != nil {
		t.Fatalf("Close() on dirty worktree failed: %v", err)
	}

	if _, err := os.Stat(dirtyFile); err != nil {
		t.Errorf("dirty checkout did not survive Close(): %v", err)
	}

	// Cleanup by hand, since Close() correctly refused.
	exec.Command("git", "-C", repo, "worktree", "remove", "--force", wt.Path()).Run()
}

func TestStageCommitDirty(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	issueDir := filepath.Join(repo, "0123456789abcdef0123456789abcdef")
	if err := os.MkdirAll(issueDir, 0755); err != nil {
		t.Fatalf("failed to create issue dir: %v", err)
	}

	dirty, err := g.IsDirty(issueDir)
	if err != nil {
		t.Fatalf("IsDirty() failed: %v", err)
	}
	if dirty {
		t.Error("IsDirty() = true for empty dir, want false")
	}

	descPath := filepath.Join(issueDir, "description")
	if err := os.WriteFile(descPath, []byte("a title\n"), 0644); err != nil {
		t.Fatalf("failed to write description: %v", err)
	}

	dirty, err = g.IsDirty(issueDir)
	if err != nil {
		t.Fatalf("IsDirty() failed: %v", err)
	}
	if !dirty {
		t.Error("IsDirty() = false with untracked file, want true")
	}

	if err := g.Stage(descPath); err != nil {
		t.Fatalf("Stage() failed: %v", err)
	}
	if err := g.Commit(issueDir, "add description"); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	dirty, _ = g.IsDirty(issueDir)
	if dirty {
		t.Error("IsDirty() = true after commit, want false")
	}
}

func TestRestore(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "issue/description", "original\n", "add description")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	descPath := filepath.Join(repo, "issue", "description")
	if err := os.WriteFile(descPath, []byte("scribbled over\n"), 0644); err != nil {
		t.Fatalf("failed to overwrite description: %v", err)
	}

	if err := g.Restore(descPath); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	content, err := os.ReadFile(descPath)
	if err != nil {
		t.Fatalf("failed to read description: %v", err)
	}
	if string(content) != "original\n" {
		t.Errorf("Restore() left content %q, want %q", content, "original\n")
	}
}

func TestOldestCommit(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "issue/description", "a title\n", "create issue")
	commitFile(t, repo, "issue/state", "done", "update state")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	author, ts, err := g.OldestCommit(filepath.Join(repo, "issue"))
	if err != nil {
		t.Fatalf("OldestCommit() failed: %v", err)
	}

	if author != "Test User <test@example.com>" {
		t.Errorf("OldestCommit() author = %q, want %q", author, "Test User <test@example.com>")
	}
	if ts.IsZero() {
		t.Error("OldestCommit() timestamp is zero")
	}

	// The oldest commit touching the dir is the creation commit, not the
	// later state update.
	subject, _ := exec.Command("git", "-C", repo, "log", "--reverse", "--format=%s", "--", "issue").Output()
	first := strings.SplitN(strings.TrimSpace(string(subject)), "\n", 2)[0]
	if first != "create issue" {
		t.Fatalf("test setup broken: oldest subject = %q", first)
	}
}

func TestOldestCommitNoHistory(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	uncommitted := filepath.Join(repo, "fresh")
	os.MkdirAll(uncommitted, 0755)
	os.WriteFile(filepath.Join(uncommitted, "description"), []byte("x"), 0644)

	_, _, err = g.OldestCommit(uncommitted)
	if !errors.Is(err, ErrNoHistory) {
		t.Errorf("OldestCommit() on uncommitted dir = %v, want ErrNoHistory", err)
	}
}

func TestLogRange(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "first")
	commitFile(t, repo, "b.txt", "b", "second")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	lines, err := g.LogRange(repo, "HEAD~1..HEAD")
	if err != nil {
		t.Fatalf("LogRange() failed: %v", err)
	}
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "second") {
		t.Errorf("LogRange(HEAD~1..HEAD) = %v, want one line ending in 'second'", lines)
	}

	lines, err = g.LogRange(repo, "HEAD..HEAD")
	if err != nil {
		t.Fatalf("LogRange() failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("LogRange(HEAD..HEAD) = %v, want empty", lines)
	}
}

func TestFetchError(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	err = g.Fetch(repo, "no-such-remote")
	if err == nil {
		t.Fatal("Fetch() from missing remote succeeded, want error")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Fetch() error type = %T, want *FetchError", err)
	}
	if fetchErr.Remote != "no-such-remote" {
		t.Errorf("FetchError.Remote = %q, want no-such-remote", fetchErr.Remote)
	}

	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Error("FetchError does not wrap *OpError")
	}
}

func TestFetchMergePush(t *testing.T) {
	repo := setupTestRepo(t)
	commitFile(t, repo, "a.txt", "a", "initial")

	// Local bare repository standing in for the remote.
	remoteDir := filepath.Join(t.TempDir(), "remote.git")
	if err := exec.Command("git", "clone", "--bare", repo, remoteDir).Run(); err != nil {
		t.Fatalf("failed to create bare remote: %v", err)
	}
	exec.Command("git", "-C", repo, "remote", "add", "origin", remoteDir).Run()

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := g.Fetch(repo, "origin"); err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	if err := g.Merge(repo, "origin/main"); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	commitFile(t, repo, "b.txt", "b", "local work")
	if err := g.Push(repo, "origin", "main"); err != nil {
		t.Fatalf("Push() failed: %v", err)
	}

	out, _ := exec.Command("git", "-C", remoteDir, "log", "--format=%s", "main").Output()
	if !strings.Contains(string(out), "local work") {
		t.Errorf("remote log missing pushed commit:\n%s", out)
	}
}

func TestOpErrorMessage(t *testing.T) {
	repo := setupTestRepo(t)

	g, err := New(repo)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = g.run("", "rev-parse", "--verify", "no-such-ref")
	if err == nil {
		t.Fatal("expected rev-parse of missing ref to fail")
	}

	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("error type = %T, want *OpError", err)
	}
	if !strings.Contains(opErr.Error(), "rev-parse") {
		t.Errorf("OpError message %q does not name the git subcommand", opErr.Error())
	}
}

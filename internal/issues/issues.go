// Package issues implements the issue store: the flat collection of
// issue records loaded from the root of an issues checkout.
package issues

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/highlab/entomologist/internal/issue"
	"github.com/highlab/entomologist/internal/logging"
	"github.com/highlab/entomologist/internal/vcs"
)

const configFile = "config.toml"

var (
	// ErrIssueNotFound is returned by lookups for unknown identifiers.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrMissingDependency is returned when a dependency target does not
	// exist in the store.
	ErrMissingDependency = errors.New("dependency target not found")
)

var (
	warnLog  = logging.New("issues")
	debugLog = logging.Debug("issues")
)

// Config is the per-store configuration from config.toml at the store
// root. The schema is reserved; nothing is configurable yet, but a
// malformed file is still a load error.
type Config struct{}

// Store is the in-memory collection of issues at one store root,
// keyed by identifier.
type Store struct {
	Issues map[string]*issue.Issue
	Config Config

	dir string
	git *vcs.Git
}

// Load reads every record directory under dir into a Store.
//
// A malformed issue is logged and skipped so one bad record cannot
// take down the whole store. A malformed config.toml is a hard error.
func Load(g *vcs.Git, dir string) (*Store, error) {
	s := &Store{
		Issues: make(map[string]*issue.Issue),
		dir:    dir,
		git:    g,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read issues directory: %w", err)
	}

	for _, entry := range entries {
		switch {
		case entry.IsDir():
			if entry.Name() == ".git" {
				continue
			}
			iss, err := issue.Load(g, filepath.Join(dir, entry.Name()))
			if err != nil {
				warnLog.Printf("failed to parse issue %s, skipping: %v", entry.Name(), err)
				continue
			}
			s.Issues[iss.ID] = iss

		case entry.Name() == configFile:
			if _, err := toml.DecodeFile(filepath.Join(dir, entry.Name()), &s.Config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
			}

		default:
			debugLog.Printf("ignoring unknown file in issues directory: %s", entry.Name())
		}
	}

	return s, nil
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// Get looks up an issue by identifier.
func (s *Store) Get(id string) (*issue.Issue, error) {
	iss, ok := s.Issues[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, id)
	}
	return iss, nil
}

// Add inserts an already-loaded issue, replacing any previous entry
// with the same identifier.
func (s *Store) Add(iss *issue.Issue) {
	s.Issues[iss.ID] = iss
}

// Sorted returns all issues ordered by creation time, oldest first.
// Ties break on identifier so the order is stable.
func (s *Store) Sorted() []*issue.Issue {
	out := make([]*issue.Issue, 0, len(s.Issues))
	for _, iss := range s.Issues {
		out = append(out, iss)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreationTime.Equal(out[j].CreationTime) {
			return out[i].CreationTime.Before(out[j].CreationTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Create makes a new issue with the given description, committing the
// new record directory.
func (s *Store) Create(description string) (*issue.Issue, error) {
	dir, err := s.newIssueDir()
	if err != nil {
		return nil, err
	}

	iss := issue.NewAt(s.git, dir)
	if err := iss.SetDescription(description); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	s.Issues[iss.ID] = iss
	return iss, nil
}

// CreateInteractive makes a new issue whose description comes from an
// editor round-trip. An empty or absent result aborts the creation and
// removes the record directory.
func (s *Store) CreateInteractive(ed issue.Editor) (*issue.Issue, error) {
	dir, err := s.newIssueDir()
	if err != nil {
		return nil, err
	}

	iss := issue.NewAt(s.git, dir)
	if err := iss.EditDescription(ed); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	s.Issues[iss.ID] = iss
	return iss, nil
}

// AddDependency records that issue id depends on issue depID, after
// checking that both exist in the store.
func (s *Store) AddDependency(id, depID string) error {
	iss, err := s.Get(id)
	if err != nil {
		return err
	}
	if _, ok := s.Issues[depID]; !ok {
		return fmt.Errorf("%w: %s", ErrMissingDependency, depID)
	}
	return iss.AddDependency(depID)
}

func (s *Store) newIssueDir() (string, error) {
	dir := filepath.Join(s.dir, issue.NewID())
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create issue directory: %w", err)
	}
	return dir, nil
}

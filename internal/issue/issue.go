// Package issue implements the record model: issues and their comments,
// stored as directories of plain-text field files inside a checkout of
// the issues branch.
//
// Every field lives in its own file so that every mutation is one small
// write followed by one commit. The directory name is the record's
// identifier, a random 128-bit hex token. Fields that predate the
// explicit author/creation_time files are back-filled from the oldest
// commit touching the record's directory.
package issue

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/highlab/entomologist/internal/logging"
	"github.com/highlab/entomologist/internal/tags"
	"github.com/highlab/entomologist/internal/vcs"
)

// Field file and subdirectory names inside a record directory.
const (
	fileDescription  = "description"
	fileState        = "state"
	fileAssignee     = "assignee"
	fileAuthor       = "author"
	fileCreationTime = "creation_time"
	fileDoneTime     = "done_time"
	dirDependencies  = "dependencies"
	dirTags          = "tags"
	dirComments      = "comments"
)

var debugLog = logging.Debug("issue")

// Issue is one tracked issue, loaded from its record directory.
type Issue struct {
	// ID is the record identifier, the base name of its directory.
	ID string

	// Author is "Name <email>", from the author file or the oldest
	// commit touching the directory.
	Author string

	// CreationTime is from the creation_time file or the oldest commit.
	CreationTime time.Time

	// DoneTime is stamped when the issue transitions into Done. The
	// zero value means it was never stamped.
	DoneTime time.Time

	State State

	// Dependencies are identifiers of issues this one depends on. They
	// may dangle: a dependency is reported as stored even if the target
	// no longer loads.
	Dependencies []string

	// Assignee is free-form; empty means unassigned.
	Assignee string

	// Tags is kept sorted. Tag values are unescaped, so they may
	// contain commas and slashes.
	Tags []string

	// Description is the full text; the first line is the title.
	Description string

	// Comments are sorted by creation time.
	Comments []Comment

	dir string
	git *vcs.Git
}

// NewID returns a fresh record identifier: 128 random bits as 32
// lowercase hex digits.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewAt returns a fresh in-memory issue bound to an existing, still
// empty record directory. Nothing is written or committed until the
// first mutation; an issue with no description is not loadable, so the
// caller must follow up with SetDescription or EditDescription (and
// remove the directory if that fails).
func NewAt(g *vcs.Git, dir string) *Issue {
	return &Issue{
		ID:           filepath.Base(dir),
		CreationTime: time.Now(),
		State:        StateNew,
		dir:          dir,
		git:          g,
	}
}

// Load reads the record directory at dir into an Issue.
//
// Unknown directory entries are ignored for forward compatibility. A
// missing description, a bad state token, a malformed timestamp, or a
// malformed tag filename is a parse error naming the offending record.
func Load(g *vcs.Git, dir string) (*Issue, error) {
	iss := &Issue{
		ID:    filepath.Base(dir),
		State: StateNew,
		dir:   dir,
		git:   g,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read issue directory: %w", err)
	}

	haveDescription := false
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch entry.Name() {
		case fileDescription:
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.Description = string(content)
			haveDescription = true

		case fileState:
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			state, err := ParseState(string(content))
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.State = state

		case fileAssignee:
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.Assignee = strings.TrimSpace(string(content))

		case fileAuthor:
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.Author = strings.TrimSpace(string(content))

		case fileCreationTime:
			ts, err := readTimeFile(path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.CreationTime = ts

		case fileDoneTime:
			ts, err := readTimeFile(path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.DoneTime = ts

		case dirDependencies:
			deps, err := readDependencies(path, entry)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.Dependencies = deps

		case dirTags:
			if !entry.IsDir() {
				debugLog.Printf("ignoring non-directory tags entry in issue %s", iss.ID)
				continue
			}
			issueTags, err := readTags(path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.Tags = issueTags

		case dirComments:
			if !entry.IsDir() {
				debugLog.Printf("ignoring non-directory comments entry in issue %s", iss.ID)
				continue
			}
			comments, err := readComments(g, path)
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
			}
			iss.Comments = comments

		default:
			debugLog.Printf("ignoring unknown file in issue directory: %s", entry.Name())
		}
	}

	if !haveDescription {
		return nil, fmt.Errorf("%w: issue %s", ErrMissingDescription, iss.ID)
	}

	// Records created before author/creation_time files existed get
	// their provenance from the commit history.
	if iss.Author == "" || iss.CreationTime.IsZero() {
		author, ts, err := g.OldestCommit(dir)
		if err != nil {
			return nil, fmt.Errorf("issue %s: %w", iss.ID, err)
		}
		if iss.Author == "" {
			iss.Author = author
		}
		if iss.CreationTime.IsZero() {
			iss.CreationTime = ts
		}
	}

	return iss, nil
}

// Title returns the first line of the description, or the whole
// description if it has no newline.
func (iss *Issue) Title() string {
	if i := strings.IndexByte(iss.Description, '\n'); i >= 0 {
		return iss.Description[:i]
	}
	return iss.Description
}

// Dir returns the record directory this issue was loaded from.
func (iss *Issue) Dir() string {
	return iss.dir
}

// HasTag returns true if the issue carries the tag.
func (iss *Issue) HasTag(tag string) bool {
	for _, t := range iss.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func readTimeFile(path string) (time.Time, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(string(content)))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return ts, nil
}

// readDependencies handles both encodings: the current one-empty-file-
// per-identifier subdirectory, and the legacy newline-separated list
// file.
func readDependencies(path string, entry os.DirEntry) ([]string, error) {
	if entry.IsDir() {
		children, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		var deps []string
		for _, child := range children {
			deps = append(deps, child.Name())
		}
		sort.Strings(deps)
		return deps, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var deps []string
	for _, line := range strings.Split(string(content), "\n") {
		if line != "" {
			deps = append(deps, line)
		}
	}
	return deps, nil
}

func readTags(path string) ([]string, error) {
	children, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, child := range children {
		tag, err := tags.Unescape(child.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}

func readComments(g *vcs.Git, path string) ([]Comment, error) {
	children, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var comments []Comment
	for _, child := range children {
		if !child.IsDir() {
			debugLog.Printf("ignoring non-directory comment entry: %s", child.Name())
			continue
		}
		comment, err := LoadComment(g, filepath.Join(path, child.Name()))
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreationTime.Before(comments[j].CreationTime)
	})
	return comments, nil
}

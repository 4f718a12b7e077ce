package issue

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/highlab/entomologist/internal/vcs"
)

// Comment is one comment on an issue. Comments belong to exactly one
// issue and live under its comments/ subdirectory, each in its own
// record directory shaped like an issue minus state, tags and
// dependencies.
type Comment struct {
	// ID is the record identifier, the base name of its directory.
	ID string

	// Author is "Name <email>", from the author file or the oldest
	// commit touching the directory.
	Author string

	// CreationTime is from the creation_time file or the oldest commit.
	CreationTime time.Time

	Description string

	dir string
	git *vcs.Git
}

// LoadComment reads one comment record directory. The description is
// mandatory; author and creation time are back-filled from history when
// not stored explicitly.
func LoadComment(g *vcs.Git, dir string) (*Comment, error) {
	c := &Comment{
		ID:  filepath.Base(dir),
		dir: dir,
		git: g,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read comment directory: %w", err)
	}

	haveDescription := false
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch entry.Name() {
		case fileDescription:
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("comment %s: %w", c.ID, err)
			}
			c.Description = string(content)
			haveDescription = true

		case fileAuthor:
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("comment %s: %w", c.ID, err)
			}
			c.Author = strings.TrimSpace(string(content))

		case fileCreationTime:
			ts, err := readTimeFile(path)
			if err != nil {
				return nil, fmt.Errorf("comment %s: %w", c.ID, err)
			}
			c.CreationTime = ts

		default:
			debugLog.Printf("ignoring unknown file in comment directory: %s", entry.Name())
		}
	}

	if !haveDescription {
		return nil, fmt.Errorf("%w: comment %s", ErrMissingDescription, c.ID)
	}

	if c.Author == "" || c.CreationTime.IsZero() {
		author, ts, err := g.OldestCommit(dir)
		if err != nil {
			return nil, fmt.Errorf("comment %s: %w", c.ID, err)
		}
		if c.Author == "" {
			c.Author = author
		}
		if c.CreationTime.IsZero() {
			c.CreationTime = ts
		}
	}

	return c, nil
}

// Dir returns the record directory this comment was loaded from.
func (c *Comment) Dir() string {
	return c.dir
}

package issue

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/highlab/entomologist/internal/tags"
)

// Editor launches an interactive editor on one file and returns once
// the user is done. Implemented by internal/editor; accepted as an
// interface so record code never deals with terminals directly.
type Editor interface {
	Edit(path string) error
}

// writeField writes one field file. This is the unit of mutation that
// the commit protocol wraps.
func (iss *Issue) writeField(name, value string) (string, error) {
	path := filepath.Join(iss.dir, name)
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// commitIfDirty stages path and commits the issue directory with
// message, unless the write turned out to be a no-op (same content as
// already committed), in which case no commit is produced.
func (iss *Issue) commitIfDirty(path, message string) error {
	if err := iss.git.Stage(path); err != nil {
		return err
	}
	dirty, err := iss.git.IsDirty(iss.dir)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	return iss.git.Commit(iss.dir, message)
}

// SetDescription replaces the description and commits. An empty or
// whitespace-only description is rejected.
func (iss *Issue) SetDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}

	path, err := iss.writeField(fileDescription, description)
	if err != nil {
		return err
	}
	if err := iss.commitIfDirty(path, fmt.Sprintf("update 'description' in issue %s", iss.ID)); err != nil {
		return err
	}

	iss.Description = description
	return nil
}

// EditDescription runs an interactive editor round-trip on the
// description. Saving an empty (or whitespace-only) file, or deleting
// it, means the user changed their mind: any pre-existing content is
// restored, nothing is committed, and ErrEmptyDescription is returned.
func (iss *Issue) EditDescription(ed Editor) error {
	path := filepath.Join(iss.dir, fileDescription)

	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := ed.Edit(path); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) || (err == nil && strings.TrimSpace(string(content)) == ""):
		if existed {
			if err := iss.git.Restore(path); err != nil {
				return err
			}
		} else {
			os.Remove(path)
		}
		return ErrEmptyDescription
	case err != nil:
		return fmt.Errorf("failed to read edited description: %w", err)
	}

	if err := iss.commitIfDirty(path, fmt.Sprintf("new description for issue %s", iss.ID)); err != nil {
		return err
	}

	iss.Description = string(content)
	return nil
}

// SetState moves the issue to newState and commits. Any state may move
// to any other state; the model imposes no transition graph. Entering
// Done additionally stamps done_time as a second, separate commit.
// Leaving Done never clears done_time.
func (iss *Issue) SetState(newState State) error {
	oldState := iss.State

	path, err := iss.writeField(fileState, string(newState))
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("set state of issue %s: '%s' -> '%s'", iss.ID, oldState, newState)
	if err := iss.commitIfDirty(path, msg); err != nil {
		return err
	}
	iss.State = newState

	if newState == StateDone && oldState != StateDone {
		now := time.Now()
		path, err := iss.writeField(fileDoneTime, now.Format(time.RFC3339))
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("update 'done_time' in issue %s", iss.ID)
		if err := iss.commitIfDirty(path, msg); err != nil {
			return err
		}
		iss.DoneTime = now
	}

	return nil
}

// SetAssignee overwrites the assignee and commits. Prior assignees are
// only recoverable from the commit log.
func (iss *Issue) SetAssignee(assignee string) error {
	assignee = strings.TrimSpace(assignee)
	oldAssignee := iss.Assignee

	path, err := iss.writeField(fileAssignee, assignee)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("set assignee of issue %s: '%s' -> '%s'", iss.ID, oldAssignee, assignee)
	if err := iss.commitIfDirty(path, msg); err != nil {
		return err
	}

	iss.Assignee = assignee
	return nil
}

// AddTag records the tag as an empty marker file named by the escaped
// tag value. Adding a tag the issue already has is a no-op: no file
// write, no commit.
func (iss *Issue) AddTag(tag string) error {
	if iss.HasTag(tag) {
		return nil
	}

	tagsDir := filepath.Join(iss.dir, dirTags)
	if err := os.MkdirAll(tagsDir, 0755); err != nil {
		return fmt.Errorf("failed to create tags directory: %w", err)
	}

	path := filepath.Join(tagsDir, tags.Escape(tag))
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return fmt.Errorf("failed to write tag file: %w", err)
	}

	if err := iss.commitIfDirty(tagsDir, fmt.Sprintf("add tag '%s' to issue %s", tag, iss.ID)); err != nil {
		return err
	}

	iss.Tags = append(iss.Tags, tag)
	sort.Strings(iss.Tags)
	return nil
}

// RemoveTag deletes the tag's marker file. Removing a tag the issue
// does not have is an error and leaves the on-disk tag set unchanged.
func (iss *Issue) RemoveTag(tag string) error {
	if !iss.HasTag(tag) {
		return fmt.Errorf("%w: %q", ErrTagNotFound, tag)
	}

	tagsDir := filepath.Join(iss.dir, dirTags)
	path := filepath.Join(tagsDir, tags.Escape(tag))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove tag file: %w", err)
	}

	if err := iss.commitIfDirty(tagsDir, fmt.Sprintf("remove tag '%s' from issue %s", tag, iss.ID)); err != nil {
		return err
	}

	for i, t := range iss.Tags {
		if t == tag {
			iss.Tags = append(iss.Tags[:i], iss.Tags[i+1:]...)
			break
		}
	}
	return nil
}

// AddDependency records a dependency on another issue as an empty
// marker file named by the target identifier. Identifiers are already
// filesystem-safe, so unlike tags no escaping is involved. The caller
// is responsible for checking that the target exists in the store.
func (iss *Issue) AddDependency(depID string) error {
	if depID == iss.ID {
		return ErrSelfDependency
	}
	for _, dep := range iss.Dependencies {
		if dep == depID {
			return fmt.Errorf("%w: %s", ErrDuplicateDependency, depID)
		}
	}

	depsDir := filepath.Join(iss.dir, dirDependencies)
	if err := os.MkdirAll(depsDir, 0755); err != nil {
		return fmt.Errorf("failed to create dependencies directory: %w", err)
	}

	path := filepath.Join(depsDir, depID)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return fmt.Errorf("failed to write dependency file: %w", err)
	}

	if err := iss.commitIfDirty(depsDir, fmt.Sprintf("add dependency %s to issue %s", depID, iss.ID)); err != nil {
		return err
	}

	iss.Dependencies = append(iss.Dependencies, depID)
	sort.Strings(iss.Dependencies)
	return nil
}

// AddComment creates a fresh comment directory under the issue with the
// given description and commits it.
func (iss *Issue) AddComment(description string) (*Comment, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}

	commentDir, err := iss.newCommentDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(commentDir, fileDescription)
	if err := os.WriteFile(path, []byte(description), 0644); err != nil {
		os.RemoveAll(commentDir)
		return nil, fmt.Errorf("failed to write comment description: %w", err)
	}

	return iss.finishComment(commentDir, description)
}

// AddCommentInteractive creates a fresh comment directory and runs an
// editor round-trip for its description. An empty or absent result
// aborts the comment: the directory is removed and nothing is
// committed.
func (iss *Issue) AddCommentInteractive(ed Editor) (*Comment, error) {
	commentDir, err := iss.newCommentDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(commentDir, fileDescription)
	if err := ed.Edit(path); err != nil {
		os.RemoveAll(commentDir)
		return nil, err
	}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) || (err == nil && strings.TrimSpace(string(content)) == "") {
		os.RemoveAll(commentDir)
		return nil, ErrEmptyDescription
	}
	if err != nil {
		os.RemoveAll(commentDir)
		return nil, fmt.Errorf("failed to read comment description: %w", err)
	}

	return iss.finishComment(commentDir, string(content))
}

func (iss *Issue) newCommentDir() (string, error) {
	commentsDir := filepath.Join(iss.dir, dirComments)
	if err := os.MkdirAll(commentsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create comments directory: %w", err)
	}

	commentDir := filepath.Join(commentsDir, NewID())
	if err := os.Mkdir(commentDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create comment directory: %w", err)
	}
	return commentDir, nil
}

// SetDescription replaces the comment's description and commits.
func (c *Comment) SetDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}

	path := filepath.Join(c.dir, fileDescription)
	if err := os.WriteFile(path, []byte(description), 0644); err != nil {
		return fmt.Errorf("failed to write comment description: %w", err)
	}

	if err := c.git.Stage(path); err != nil {
		return err
	}
	dirty, err := c.git.IsDirty(c.dir)
	if err != nil {
		return err
	}
	if dirty {
		msg := fmt.Sprintf("update 'description' in comment %s", c.ID)
		if err := c.git.Commit(c.dir, msg); err != nil {
			return err
		}
	}

	c.Description = description
	return nil
}

func (iss *Issue) finishComment(commentDir, description string) (*Comment, error) {
	id := filepath.Base(commentDir)

	if err := iss.git.Stage(commentDir); err != nil {
		return nil, err
	}
	if err := iss.git.Commit(iss.dir, fmt.Sprintf("add comment %s to issue %s", id, iss.ID)); err != nil {
		return nil, err
	}

	comment := Comment{
		ID:           id,
		CreationTime: time.Now(),
		Description:  description,
		dir:          commentDir,
		git:          iss.git,
	}
	iss.Comments = append(iss.Comments, comment)
	return &comment, nil
}

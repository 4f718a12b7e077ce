package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/editor"
	"github.com/highlab/entomologist/internal/issue"
)

var commentCmd = &cobra.Command{
	Use:   "comment <issue-id> [description]",
	Short: "Add a comment to an issue",
	Long: `Add a comment to an issue. With a description argument the comment is
created directly; without one your editor opens, and saving an empty
file aborts the comment.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runComment,
}

func init() {
	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	db, store, err := loadStore(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	iss, err := getIssue(store, args[0])
	if err != nil {
		return err
	}

	var comment *issue.Comment
	if len(args) == 2 {
		comment, err = iss.AddComment(args[1])
	} else {
		comment, err = iss.AddCommentInteractive(editor.New())
	}
	if errors.Is(err, issue.ErrEmptyDescription) {
		fmt.Println("aborted new comment")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("created new comment %s\n", comment.ID)
	return nil
}

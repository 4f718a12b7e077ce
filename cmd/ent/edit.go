package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/editor"
	"github.com/highlab/entomologist/internal/issue"
)

var editCmd = &cobra.Command{
	Use:   "edit <issue-id>",
	Short: "Edit an issue's description in your editor",
	Long: `Open the issue's description in your editor ($` + editor.EnvEditor + `, $VISUAL
or $EDITOR, falling back to vi). Saving an empty file abandons the
edit and keeps the old description.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	db, store, err := loadStore(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	iss, err := getIssue(store, args[0])
	if err != nil {
		return err
	}

	err = iss.EditDescription(editor.New())
	if errors.Is(err, issue.ErrEmptyDescription) {
		fmt.Println("aborted issue edit")
		return nil
	}
	return err
}

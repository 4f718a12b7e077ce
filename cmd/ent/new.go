package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/editor"
	"github.com/highlab/entomologist/internal/issue"
)

var newCmd = &cobra.Command{
	Use:   "new [description]",
	Short: "Create a new issue",
	Long: `Create a new issue. With a description argument the issue is created
directly; without one your editor opens on an empty description, and
saving an empty file aborts the creation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	db, store, err := loadStore(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	var created *issue.Issue
	if len(args) == 1 {
		created, err = store.Create(args[0])
	} else {
		created, err = store.CreateInteractive(editor.New())
	}
	if errors.Is(err, issue.ErrEmptyDescription) {
		fmt.Println("no new issue created")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("created new issue %s '%s'\n", created.ID, created.Title())
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
)

var assignCmd = &cobra.Command{
	Use:   "assign <issue-id> [assignee]",
	Short: "Show or set an issue's assignee",
	Long: `Show or set an issue's assignee. The assignee is a free-form string;
set it to '' to mark the issue unassigned.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		db, store, err := loadStore(cmd, database.ReadOnly)
		if err != nil {
			return err
		}
		defer db.Close()

		iss, err := getIssue(store, args[0])
		if err != nil {
			return err
		}
		if iss.Assignee == "" {
			fmt.Printf("issue: %s\nno assignee\n", iss.ID)
		} else {
			fmt.Printf("issue: %s\nassignee: %s\n", iss.ID, iss.Assignee)
		}
		return nil
	}

	db, store, err := loadStore(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	iss, err := getIssue(store, args[0])
	if err != nil {
		return err
	}

	oldAssignee := iss.Assignee
	if err := iss.SetAssignee(args[1]); err != nil {
		return err
	}
	fmt.Printf("issue: %s\nassignee: %s -> %s\n", iss.ID, oldAssignee, iss.Assignee)
	return nil
}

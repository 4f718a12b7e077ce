package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
)

var depCmd = &cobra.Command{
	Use:   "dep <issue-id> [depends-on-id]",
	Short: "List or add an issue's dependencies",
	Long: `List or add an issue's dependencies. Without a second argument the
issue's dependencies are listed. With one, the issue is recorded as
depending on that other issue; the target must exist in the store and
an issue can never depend on itself.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDep,
}

func init() {
	rootCmd.AddCommand(depCmd)
}

func runDep(cmd *cobra.Command, args []string) error {
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
		for _, dep := range iss.Dependencies {
			fmt.Println(dep)
		}
		return nil
	}

	db, store, err := loadStore(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.AddDependency(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("issue %s now depends on %s\n", args[0], args[1])
	return nil
}

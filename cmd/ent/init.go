package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the issues branch",
	Long: `Create the issues branch in the current repository if it does not
exist yet. Other commands create it on first use anyway; init exists
to set up the branch explicitly, for example right before pushing it
to a remote for teammates.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	src, err := databaseSource(cmd)
	if err != nil {
		return err
	}
	if src.Dir != "" {
		return fmt.Errorf("init creates a branch, don't specify --issues-dir")
	}

	db, err := openDatabase(cmd, database.ReadOnly)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("issues branch '%s' is ready\n", db.Branch())
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync [remote]",
	Short: "Sync issues with a remote",
	Long: `Fetch from the remote, merge its copy of the issues branch into the
local one, and push the result back. The remote defaults to
$ENT_REMOTE, then origin.

A merge conflict stops the sync and leaves the conflicted checkout in
place for manual resolution. Syncing needs a branch-backed database;
it refuses to run with --issues-dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	remote := viper.GetString("remote")
	if len(args) == 1 {
		remote = args[0]
	}

	db, err := openDatabase(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sync.Sync(db, remote, os.Stdout); err != nil {
		return err
	}

	fmt.Printf("synced '%s' with '%s'\n", db.Branch(), remote)
	return nil
}

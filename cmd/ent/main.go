// ent is a distributed issue tracker that keeps its data in plain
// files on a git branch, alongside the code it tracks.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/issue"
	"github.com/highlab/entomologist/internal/issues"
	"github.com/highlab/entomologist/internal/vcs"
)

var rootCmd = &cobra.Command{
	Use:   "ent",
	Short: "Track issues in files on a dedicated git branch",
	Long: `ent keeps issues in plain files on a dedicated git branch of the
repository you are already in, so issue history travels with the code
and syncs through the remotes you already have.

By default issues live on the '` + database.DefaultBranch + `' branch, created on
first use. Point at another branch with --issues-branch or at a plain
directory with --issues-dir.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("issues-dir", "d", "", "Directory containing issues")
	rootCmd.PersistentFlags().StringP("issues-branch", "b", "", "Branch containing issues")

	viper.SetEnvPrefix("ENT")
	viper.AutomaticEnv()
	viper.SetDefault("remote", "origin")

	lipgloss.SetColorProfile(termenv.ColorProfile())
}

// databaseSource resolves the persistent flags plus ENT_BRANCH into a
// source. Naming both a directory and a branch is an operator error.
func databaseSource(cmd *cobra.Command) (database.Source, error) {
	dir, err := cmd.Flags().GetString("issues-dir")
	if err != nil {
		return database.Source{}, err
	}

	branch := viper.GetString("branch")
	if flagBranch, _ := cmd.Flags().GetString("issues-branch"); flagBranch != "" {
		branch = flagBranch
	}

	if dir != "" && branch != "" {
		return database.Source{}, database.ErrAmbiguousSource
	}
	if dir != "" {
		return database.Source{Dir: dir}, nil
	}
	return database.Source{Branch: branch}, nil
}

// openDatabase resolves the source and opens it. The caller owns the
// returned database and must Close it.
func openDatabase(cmd *cobra.Command, access database.Access) (*database.Database, error) {
	src, err := databaseSource(cmd)
	if err != nil {
		return nil, err
	}

	repo := "."
	if src.Dir != "" {
		repo = src.Dir
	}
	g, err := vcs.New(repo)
	if err != nil {
		return nil, err
	}

	return database.Open(g, src, access)
}

// loadStore opens the database and loads the issue store in one go.
func loadStore(cmd *cobra.Command, access database.Access) (*database.Database, *issues.Store, error) {
	db, err := openDatabase(cmd, access)
	if err != nil {
		return nil, nil, err
	}
	store, err := db.Load()
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

func getIssue(store *issues.Store, id string) (*issue.Issue, error) {
	iss, err := store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("issue %s not found", id)
	}
	return iss, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

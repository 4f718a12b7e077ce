package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
)

var tagCmd = &cobra.Command{
	Use:   "tag <issue-id> [tag]",
	Short: "List, add or remove an issue's tags",
	Long: `List, add or remove an issue's tags. Without a tag argument the
issue's tags are listed; with one the tag is added, or removed when
--remove is given. Tags are free-form and may contain commas and
slashes. Adding a tag the issue already has is a no-op.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTag,
}

func init() {
	tagCmd.Flags().BoolP("remove", "r", false, "Remove the tag instead of adding it")
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	remove, _ := cmd.Flags().GetBool("remove")

	if len(args) == 1 {
		if remove {
			return fmt.Errorf("--remove needs a tag argument")
		}
		db, store, err := loadStore(cmd, database.ReadOnly)
		if err != nil {
			return err
		}
		defer db.Close()

		iss, err := getIssue(store, args[0])
		if err != nil {
			return err
		}
		for _, tag := range iss.Tags {
			fmt.Println(tag)
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

	tag := args[1]
	if remove {
		if err := iss.RemoveTag(tag); err != nil {
			return err
		}
		fmt.Printf("removed tag '%s' from issue %s\n", tag, iss.ID)
		return nil
	}

	if iss.HasTag(tag) {
		fmt.Printf("issue %s already has tag '%s'\n", iss.ID, tag)
		return nil
	}
	if err := iss.AddTag(tag); err != nil {
		return err
	}
	fmt.Printf("added tag '%s' to issue %s\n", tag, iss.ID)
	return nil
}

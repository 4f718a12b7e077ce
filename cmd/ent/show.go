package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/highlab/entomologist/internal/database"
)

var showCmd = &cobra.Command{
	Use:   "show <issue-id>",
	Short: "Show one issue in full, including its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

var fieldNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

func field(name, value string) string {
	return fieldNameStyle.Render(name+":") + " " + value
}

func runShow(cmd *cobra.Command, args []string) error {
	db, store, err := loadStore(cmd, database.ReadOnly)
	if err != nil {
		return err
	}
	defer db.Close()

	iss, err := getIssue(store, args[0])
	if err != nil {
		return err
	}

	fmt.Println(field("issue", iss.ID))
	fmt.Println(field("author", iss.Author))
	fmt.Println(field("created", iss.CreationTime.Format(time.RFC3339)))
	fmt.Println(field("state", iss.State.String()))
	if !iss.DoneTime.IsZero() {
		fmt.Println(field("done", iss.DoneTime.Format(time.RFC3339)))
	}
	if iss.Assignee != "" {
		fmt.Println(field("assignee", iss.Assignee))
	}
	if len(iss.Tags) > 0 {
		fmt.Println(field("tags", strings.Join(iss.Tags, ", ")))
	}
	if len(iss.Dependencies) > 0 {
		fmt.Println(field("dependencies", strings.Join(iss.Dependencies, ", ")))
	}
	fmt.Println()
	fmt.Println(iss.Description)

	for _, comment := range iss.Comments {
		fmt.Println()
		fmt.Println(field("comment", comment.ID))
		fmt.Println(field("author", comment.Author))
		fmt.Println(field("created", comment.CreationTime.Format(time.RFC3339)))
		fmt.Println()
		fmt.Println(comment.Description)
	}

	return nil
}

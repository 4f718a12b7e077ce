package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/filter"
	"github.com/highlab/entomologist/internal/issue"
)

var listCmd = &cobra.Command{
	Use:   "list [filter...]",
	Short: "List issues, optionally filtered",
	Long: `List issues grouped by state. Filters are name=value clauses:

  state=done,wontdo            states to include (default: the open states)
  assignee=alice,bob           assignees to include ('' means unassigned)
  tag=bug,-docs                tags to require / exclude ('-' prefix excludes)
  done-time=START..END         done-time range, RFC-3339, either end open

done-time bounds that are not RFC-3339 are tried as natural language,
so 'done-time=last monday..' works too. Repeating a clause name
replaces the earlier clause rather than adding to it.

Examples:
  ent list
  ent list state=done assignee=alice
  ent list tag=bug,-wontfix done-time=2024-01-01T00:00:00Z..`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("format", "text", "Output format: text, json, or yaml")
	rootCmd.AddCommand(listCmd)
}

var (
	stateHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	issueIDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	assigneeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func runList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	f := filter.New()
	for _, clause := range args {
		if err := f.Parse(preprocessClause(clause)); err != nil {
			return err
		}
	}

	db, store, err := loadStore(cmd, database.ReadOnly)
	if err != nil {
		return err
	}
	defer db.Close()

	var matched []*issue.Issue
	for _, iss := range store.Sorted() {
		if f.Match(iss) {
			matched = append(matched, iss)
		}
	}

	switch format {
	case "text":
		printGrouped(matched)
		return nil
	case "json", "yaml":
		return printMachine(matched, format)
	default:
		return fmt.Errorf("unknown format %q: want text, json or yaml", format)
	}
}

// preprocessClause rewrites the bounds of a done-time clause through a
// natural-language date parser when they are not already RFC-3339. The
// core filter language stays strict; this sugar exists only on the
// command line.
func preprocessClause(clause string) string {
	value, found := strings.CutPrefix(clause, "done-time=")
	if !found {
		return clause
	}
	start, end, found := strings.Cut(value, "..")
	if !found {
		return clause
	}
	return "done-time=" + naturalTime(start) + ".." + naturalTime(end)
}

func naturalTime(s string) string {
	if s == "" {
		return s
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return s
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(s, time.Now())
	if err != nil || r == nil {
		// not parseable either way; hand it through so the filter
		// reports the error
		return s
	}
	return r.Time.Format(time.RFC3339)
}

func printGrouped(matched []*issue.Issue) {
	byState := make(map[issue.State][]*issue.Issue)
	for _, iss := range matched {
		byState[iss.State] = append(byState[iss.State], iss)
	}

	for _, state := range issue.States {
		group := byState[state]
		if len(group) == 0 {
			continue
		}
		fmt.Println(stateHeaderStyle.Render(state.String() + ":"))
		for _, iss := range group {
			line := fmt.Sprintf("%s  %s", issueIDStyle.Render(iss.ID), iss.Title())
			if len(iss.Comments) > 0 {
				line += fmt.Sprintf("  [%d comments]", len(iss.Comments))
			}
			if iss.Assignee != "" {
				line += "  " + assigneeStyle.Render("("+iss.Assignee+")")
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
}

// issueView is the machine-readable projection of an issue.
type issueView struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	State        string   `json:"state" yaml:"state"`
	Author       string   `json:"author" yaml:"author"`
	CreationTime string   `json:"creation_time" yaml:"creation_time"`
	DoneTime     string   `json:"done_time,omitempty" yaml:"done_time,omitempty"`
	Assignee     string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Comments     int      `json:"comments,omitempty" yaml:"comments,omitempty"`
}

func printMachine(matched []*issue.Issue, format string) error {
	views := make([]issueView, 0, len(matched))
	for _, iss := range matched {
		view := issueView{
			ID:           iss.ID,
			Title:        iss.Title(),
			State:        iss.State.String(),
			Author:       iss.Author,
			CreationTime: iss.CreationTime.Format(time.RFC3339),
			Assignee:     iss.Assignee,
			Tags:         iss.Tags,
			Dependencies: iss.Dependencies,
			Comments:     len(iss.Comments),
		}
		if !iss.DoneTime.IsZero() {
			view.DoneTime = iss.DoneTime.Format(time.RFC3339)
		}
		views = append(views, view)
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	return yaml.NewEncoder(os.Stdout).Encode(views)
}

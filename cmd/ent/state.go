package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/highlab/entomologist/internal/database"
	"github.com/highlab/entomologist/internal/issue"
)

var stateCmd = &cobra.Command{
	Use:   "state <issue-id> [new-state]",
	Short: "Show or change an issue's state",
	Long: `Show or change an issue's state. With a new-state argument the state
is set directly; without one, an interactive picker opens when run
from a terminal, otherwise the current state is printed.

States: new, backlog, blocked, inprogress, done, wontdo. Moving an
issue to done stamps its done time.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runState,
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) error {
	if len(args) == 2 {
		newState, err := issue.ParseState(args[1])
		if err != nil {
			return err
		}
		return setState(cmd, args[0], newState)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return pickState(cmd, args[0])
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
	fmt.Printf("issue: %s\nstate: %s\n", iss.ID, iss.State)
	return nil
}

func setState(cmd *cobra.Command, id string, newState issue.State) error {
	db, store, err := loadStore(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	iss, err := getIssue(store, id)
	if err != nil {
		return err
	}

	oldState := iss.State
	if err := iss.SetState(newState); err != nil {
		return err
	}
	fmt.Printf("issue: %s\nstate: %s -> %s\n", iss.ID, oldState, newState)
	return nil
}

// pickState opens an interactive selector preloaded with the issue's
// current state.
func pickState(cmd *cobra.Command, id string) error {
	db, store, err := loadStore(cmd, database.ReadWrite)
	if err != nil {
		return err
	}
	defer db.Close()

	iss, err := getIssue(store, id)
	if err != nil {
		return err
	}

	options := make([]huh.Option[issue.State], 0, len(issue.States))
	for _, state := range issue.States {
		options = append(options, huh.NewOption(state.String(), state))
	}

	choice := iss.State
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[issue.State]().
			Title(fmt.Sprintf("State of %s", iss.Title())).
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if choice == iss.State {
		fmt.Printf("issue: %s\nstate: %s (unchanged)\n", iss.ID, iss.State)
		return nil
	}

	oldState := iss.State
	if err := iss.SetState(choice); err != nil {
		return err
	}
	fmt.Printf("issue: %s\nstate: %s -> %s\n", iss.ID, oldState, choice)
	return nil
}

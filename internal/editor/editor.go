// Package editor runs the user's interactive editor on a single file.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// EnvEditor names the environment variable consulted first when
// resolving the editor command. $VISUAL and $EDITOR follow, then vi.
const EnvEditor = "ENT_EDITOR"

// ErrNotATerminal is returned when stdin or stdout is not a terminal.
// An interactive editor cannot run without one.
var ErrNotATerminal = errors.New("interactive editing needs a terminal")

// Editor invokes an external editor command with the target file
// appended as its last argument.
type Editor struct {
	command []string
}

// New resolves the editor command from the environment.
func New() *Editor {
	for _, env := range []string{EnvEditor, "VISUAL", "EDITOR"} {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			return &Editor{command: strings.Fields(value)}
		}
	}
	return &Editor{command: []string{"vi"}}
}

// Edit runs the editor on path with the terminal attached, returning
// once the editor exits. The caller decides what an unchanged or
// emptied file means.
func (e *Editor) Edit(path string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotATerminal
	}

	args := append(append([]string(nil), e.command[1:]...), path)
	cmd := exec.Command(e.command[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", strings.Join(e.command, " "), err)
	}
	return nil
}

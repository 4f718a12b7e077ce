package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPrefersEntEditor(t *testing.T) {
	t.Setenv(EnvEditor, "my-editor --flag")
	t.Setenv("VISUAL", "visual-editor")
	t.Setenv("EDITOR", "plain-editor")

	ed := New()
	require.Equal(t, []string{"my-editor", "--flag"}, ed.command)
}

func TestNewFallsBackThroughEnv(t *testing.T) {
	t.Setenv(EnvEditor, "")
	t.Setenv("VISUAL", "visual-editor")
	t.Setenv("EDITOR", "plain-editor")
	require.Equal(t, []string{"visual-editor"}, New().command)

	t.Setenv("VISUAL", "")
	require.Equal(t, []string{"plain-editor"}, New().command)

	t.Setenv("EDITOR", "  ")
	require.Equal(t, []string{"vi"}, New().command)
}

func TestEditRequiresTerminal(t *testing.T) {
	// test processes never have a terminal on stdin/stdout
	ed := New()
	err := ed.Edit(t.TempDir() + "/file")
	require.ErrorIs(t, err, ErrNotATerminal)
}

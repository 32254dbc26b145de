package effectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSaverWritesBelowBase(t *testing.T) {
	base := t.TempDir()
	saver := NewFileSaver(base)

	confirmation, err := saver.SaveFile(context.Background(), "notes", "summary.md", "# Summary")
	require.NoError(t, err)
	assert.Contains(t, confirmation, "Saved file ")

	data, err := os.ReadFile(filepath.Join(base, "notes", "summary.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Summary", string(data))
}

func TestFileSaverRejectsTraversal(t *testing.T) {
	saver := NewFileSaver(t.TempDir())

	_, err := saver.SaveFile(context.Background(), "../../etc", "evil.txt", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the save root")
}

func TestFileSaverStripsFilenamePath(t *testing.T) {
	base := t.TempDir()
	saver := NewFileSaver(base)

	_, err := saver.SaveFile(context.Background(), "", "../outside.txt", "content")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(base, "outside.txt"))
	assert.NoError(t, err)
}

func TestShellRunnerAllowlist(t *testing.T) {
	runner := NewShellRunner([]string{"echo"})

	output, err := runner.Run(context.Background(), "echo", []string{"hello"}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello", output)

	_, err = runner.Run(context.Background(), "rm", []string{"-rf", "/"}, 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowlisted")
}

func TestShellRunnerMatchesBasename(t *testing.T) {
	runner := NewShellRunner([]string{"/bin/echo"})

	output, err := runner.Run(context.Background(), "echo", []string{"ok"}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ok", output)
}

func TestShellRunnerEmptyAllowlistPermitsNothing(t *testing.T) {
	runner := NewShellRunner(nil)

	_, err := runner.Run(context.Background(), "echo", []string{"hi"}, 5*time.Second)
	require.Error(t, err)
}

func TestShellRunnerTimeout(t *testing.T) {
	runner := NewShellRunner([]string{"sleep"})

	_, err := runner.Run(context.Background(), "sleep", []string{"5"}, 100*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "killed after")
}
